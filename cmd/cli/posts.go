package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/blogworks/postapi/internal/client"
	"github.com/blogworks/postapi/internal/models"
	"github.com/spf13/cobra"
)

var (
	listParams    client.ListParams
	loginUsername string
	loginPassword string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Read and delete posts through the API",
}

var listPostsCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(apiURL, 15*time.Second)
		list, err := c.ListPosts(cmd.Context(), listParams)
		if err != nil {
			return err
		}

		if output == "json" {
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No posts")
			return nil
		}
		for _, p := range list {
			printPostLine(p)
		}
		return nil
	},
}

var getPostCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a post and its first page of comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := client.New(apiURL, 15*time.Second)
		post, err := c.GetPost(cmd.Context(), id)
		if client.IsNotFound(err) {
			return fmt.Errorf("post %d not found", id)
		}
		if err != nil {
			return err
		}

		if output == "json" {
			return printJSON(post)
		}
		printPostLine(*post)
		fmt.Println()
		fmt.Println(post.Content)
		if len(post.Comments) > 0 {
			fmt.Printf("\nComments (%d):\n", len(post.Comments))
			for _, cm := range post.Comments {
				fmt.Printf("  [%d] %s: %s\n", cm.ID, displayAuthor(cm.Author), cm.Content)
			}
		}
		return nil
	},
}

var deletePostCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post and its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := client.New(apiURL, 15*time.Second)
		switch {
		case authToken != "":
			c.SetToken(authToken)
		case loginUsername != "":
			if _, err := c.Login(cmd.Context(), loginUsername, loginPassword); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
		default:
			return fmt.Errorf("set --token, POSTAPI_TOKEN or --username/--password")
		}

		deleted, err := c.DeletePost(cmd.Context(), id)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(map[string]bool{"success": deleted})
		}
		if deleted {
			fmt.Printf("Deleted post %d\n", id)
		} else {
			fmt.Printf("Post %d did not exist\n", id)
		}
		return nil
	},
}

func init() {
	listPostsCmd.Flags().IntVar(&listParams.PageNumber, "page", 0, "Page number")
	listPostsCmd.Flags().IntVar(&listParams.PageSize, "size", 0, "Posts per page")
	listPostsCmd.Flags().IntVar(&listParams.CommentsPerPage, "comments", 0, "Comments per post")
	listPostsCmd.Flags().BoolVar(&listParams.ExcludeComments, "no-comments", false, "Omit comments")

	deletePostCmd.Flags().StringVar(&loginUsername, "username", "", "Log in as this user")
	deletePostCmd.Flags().StringVar(&loginPassword, "password", "", "Password for --username")

	postsCmd.AddCommand(listPostsCmd)
	postsCmd.AddCommand(getPostCmd)
	postsCmd.AddCommand(deletePostCmd)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return uint(id), nil
}

func printPostLine(p models.Post) {
	fmt.Printf("[%d] %s by %s (%s, %d comments)\n",
		p.ID, p.Title, displayAuthor(p.Author), p.CreateAt.Format("2006-01-02"), len(p.Comments))
}

func displayAuthor(a string) string {
	if a == "" {
		return "anonymous"
	}
	return a
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
