// Package client is a typed HTTP client for the post API, used by the CLI.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blogworks/postapi/internal/auth"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/telemetry"
	"github.com/blogworks/postapi/internal/util"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const userAgent = "postapi-cli/1.0"

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%d] %s: %s (field: %s)", e.StatusCode, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// ListParams are the paging options of a post listing. Zero values are omitted.
type ListParams struct {
	PageNumber        int
	PageSize          int
	CommentPageNumber int
	CommentsPerPage   int
	// ExcludeComments sends includeComments=false
	ExcludeComments bool
}

// Client talks to one API base URL
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration) *Client {
	hc := telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
		ServiceName: "postapi",
		Timeout:     timeout,
	})

	r := resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	r.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Log.Debug("HTTP Request", zap.String("method", req.Method), zap.String("url", req.URL))
		return nil
	})
	r.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Log.Debug("HTTP Response", zap.Int("status", resp.StatusCode()))
		return nil
	})

	return &Client{http: r}
}

// SetToken authenticates subsequent requests
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// Login exchanges credentials for a token and uses it for subsequent requests
func (c *Client) Login(ctx context.Context, username, password string) (*auth.AuthResponse, error) {
	var result auth.AuthResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(auth.LoginRequest{Username: username, Password: password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	c.SetToken(result.Token)
	return &result, nil
}

// ListPosts fetches one page of posts
func (c *Client) ListPosts(ctx context.Context, params ListParams) ([]models.Post, error) {
	req := c.http.R().SetContext(ctx)
	setPositive(req, "pageNumber", params.PageNumber)
	setPositive(req, "pageSize", params.PageSize)
	setPositive(req, "commentPageNumber", params.CommentPageNumber)
	setPositive(req, "commentsPerPage", params.CommentsPerPage)
	if params.ExcludeComments {
		req.SetQueryParam("includeComments", "false")
	}

	var result []models.Post
	resp, err := req.SetResult(&result).Get("/api/Posts/GetAllPosts")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPost fetches a single post with its first page of comments
func (c *Client) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var result models.Post
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/api/Posts/%d", id))
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeletePost removes a post, reporting whether it existed
func (c *Client) DeletePost(ctx context.Context, id uint) (bool, error) {
	var result util.SuccessResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Delete(fmt.Sprintf("/api/Posts/%d", id))
	if err := check(resp, err); err != nil {
		return false, err
	}
	return result.Success, nil
}

func setPositive(req *resty.Request, name string, value int) {
	if value > 0 {
		req.SetQueryParam(name, strconv.Itoa(value))
	}
}

// check turns transport failures and non-2xx responses into errors
func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}

	var body util.ErrorResponse
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Code:       body.Code,
			Message:    body.Message,
			Field:      body.Field,
		}
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Code:       "UNKNOWN",
		Message:    resp.Status(),
	}
}
