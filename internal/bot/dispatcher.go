package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/blogworks/postapi/internal/telemetry"
	"go.uber.org/zap"
)

// Menu labels understood by the dispatcher
const (
	LabelStart           = "/start"
	LabelMainMenu        = "Main Menu"
	LabelMovies          = "Movies"
	LabelCartoons        = "Cartoons"
	LabelNextMovie       = "Next Movie"
	LabelPreviousMovie   = "Previous Movie"
	LabelNextCartoon     = "Next Cartoon"
	LabelPreviousCartoon = "Previous Cartoon"
)

// DefaultPageSize is the number of catalog items per message
const DefaultPageSize = 5

// Reply is the message sent back to a chat
type Reply struct {
	Text     string
	Keyboard [][]string
}

type listLabels struct {
	title    string
	next     string
	previous string
}

var labelsByKind = map[Kind]listLabels{
	KindMovies:   {title: "Movies", next: LabelNextMovie, previous: LabelPreviousMovie},
	KindCartoons: {title: "Cartoons", next: LabelNextCartoon, previous: LabelPreviousCartoon},
}

// MainMenuKeyboard is shown outside of any list
var MainMenuKeyboard = [][]string{{LabelMovies, LabelCartoons}}

func listKeyboard(kind Kind) [][]string {
	l := labelsByKind[kind]
	return [][]string{{l.previous, l.next}, {LabelMainMenu}}
}

// Dispatcher turns a chat's text message into a reply
type Dispatcher struct {
	catalog  Catalog
	cursors  CursorStore
	pageSize int
}

// NewDispatcher creates a dispatcher. A pageSize below 1 uses DefaultPageSize.
func NewDispatcher(catalog Catalog, cursors CursorStore, pageSize int) *Dispatcher {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Dispatcher{catalog: catalog, cursors: cursors, pageSize: pageSize}
}

// commandName is the metric and span label of a message
func commandName(text string) string {
	switch text {
	case LabelStart:
		return "start"
	case LabelMainMenu:
		return "main_menu"
	case LabelMovies:
		return "movies"
	case LabelCartoons:
		return "cartoons"
	case LabelNextMovie:
		return "next_movie"
	case LabelPreviousMovie:
		return "previous_movie"
	case LabelNextCartoon:
		return "next_cartoon"
	case LabelPreviousCartoon:
		return "previous_cartoon"
	default:
		return "unknown"
	}
}

// Handle processes one text message from chatID
func (d *Dispatcher) Handle(ctx context.Context, chatID int64, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	command := commandName(text)

	ctx, span := telemetry.TraceBotCommand(ctx, chatID, command)
	defer span.End()

	start := time.Now()
	defer func() {
		m := metrics.Get()
		m.BotCommandsTotal.WithLabelValues(command).Inc()
		m.BotCommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}()

	reply, err := d.dispatch(ctx, chatID, text)
	if err != nil {
		telemetry.RecordServiceError(span, "bot", err)
		logger.Log.Error("Bot command failed",
			logger.WithChatID(chatID),
			zap.String("command", command),
			zap.Error(err))
		return Reply{}, err
	}
	return reply, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, chatID int64, text string) (Reply, error) {
	switch text {
	case LabelStart:
		return Reply{
			Text:     "Welcome! Pick a catalog to browse.",
			Keyboard: MainMenuKeyboard,
		}, nil
	case LabelMainMenu:
		return Reply{Text: "Main menu", Keyboard: MainMenuKeyboard}, nil
	case LabelMovies:
		return d.open(ctx, chatID, KindMovies)
	case LabelCartoons:
		return d.open(ctx, chatID, KindCartoons)
	case LabelNextMovie:
		return d.next(ctx, chatID, KindMovies)
	case LabelPreviousMovie:
		return d.previous(ctx, chatID, KindMovies)
	case LabelNextCartoon:
		return d.next(ctx, chatID, KindCartoons)
	case LabelPreviousCartoon:
		return d.previous(ctx, chatID, KindCartoons)
	default:
		return Reply{
			Text:     "Sorry, I don't understand that. Use the buttons below.",
			Keyboard: MainMenuKeyboard,
		}, nil
	}
}

// open resets the chat's cursor for kind and shows the first page
func (d *Dispatcher) open(ctx context.Context, chatID int64, kind Kind) (Reply, error) {
	if err := d.cursors.Set(ctx, chatID, kind, 1); err != nil {
		return Reply{}, err
	}
	items, total, err := d.page(ctx, kind, 1)
	if err != nil {
		return Reply{}, err
	}
	if total == 0 {
		return d.empty(kind), nil
	}
	return d.render(kind, 1, items, total, ""), nil
}

func (d *Dispatcher) next(ctx context.Context, chatID int64, kind Kind) (Reply, error) {
	return d.move(ctx, chatID, kind, 1)
}

func (d *Dispatcher) previous(ctx context.Context, chatID int64, kind Kind) (Reply, error) {
	return d.move(ctx, chatID, kind, -1)
}

// move shifts the chat's cursor by delta within the pages the catalog has
// now. A stored cursor past the last page is pulled back to it first.
func (d *Dispatcher) move(ctx context.Context, chatID int64, kind Kind, delta int) (Reply, error) {
	current, err := d.cursors.Get(ctx, chatID, kind)
	if err != nil {
		return Reply{}, err
	}
	if current < 1 {
		current = 1
	}

	fetched := max(current+delta, 1)
	items, total, err := d.page(ctx, kind, fetched)
	if err != nil {
		return Reply{}, err
	}
	if total == 0 {
		if err := d.cursors.Set(ctx, chatID, kind, 1); err != nil {
			return Reply{}, err
		}
		return d.empty(kind), nil
	}

	pages := d.pages(total)
	current = min(current, pages)
	target := current + delta
	note := ""
	switch {
	case target < 1:
		target = 1
		note = "You are already on the first page."
	case target > pages:
		target = pages
		note = fmt.Sprintf("No more %s.", strings.ToLower(labelsByKind[kind].title))
	}

	if target != fetched {
		items, total, err = d.page(ctx, kind, target)
		if err != nil {
			return Reply{}, err
		}
	}
	if err := d.cursors.Set(ctx, chatID, kind, target); err != nil {
		return Reply{}, err
	}
	return d.render(kind, target, items, total, note), nil
}

func (d *Dispatcher) page(ctx context.Context, kind Kind, number int) ([]Item, int64, error) {
	return d.catalog.Page(ctx, kind, posts.Page{Number: number, Size: d.pageSize})
}

func (d *Dispatcher) pages(total int64) int {
	pages := int((total + int64(d.pageSize) - 1) / int64(d.pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

func (d *Dispatcher) empty(kind Kind) Reply {
	return Reply{
		Text:     fmt.Sprintf("No %s in the catalog yet.", strings.ToLower(labelsByKind[kind].title)),
		Keyboard: MainMenuKeyboard,
	}
}

func (d *Dispatcher) render(kind Kind, number int, items []Item, total int64, note string) Reply {
	pages := d.pages(total)

	var b strings.Builder
	if note != "" {
		b.WriteString(note)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s, page %d of %d:\n", labelsByKind[kind].title, number, pages)

	offset := (number - 1) * d.pageSize
	for i, item := range items {
		fmt.Fprintf(&b, "\n%d. %s", offset+i+1, item.Title)
		if item.Year > 0 {
			fmt.Fprintf(&b, " (%d)", item.Year)
		}
		if item.Genre != "" {
			fmt.Fprintf(&b, " - %s", item.Genre)
		}
	}

	return Reply{Text: b.String(), Keyboard: listKeyboard(kind)}
}
