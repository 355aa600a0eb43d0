package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/models"
)

var (
	_ list.Item = resultItem{}
	_ list.Item = playlistItem{}
)

// resultItem wraps [app.Row] to implement [list.Item].
type resultItem struct {
	row app.Row
}

func (i resultItem) FilterValue() string { return i.row.Title }
func (i resultItem) Title() string       { return decorate(i.row.Item, i.row.Playing) }
func (i resultItem) Description() string {
	desc := describe(i.row.Item)
	if i.row.Added {
		desc = fmt.Sprintf("%s • Added ✓", desc)
	}
	return desc
}

// playlistItem wraps [models.Item] to implement [list.Item].
type playlistItem struct {
	item    models.Item
	playing bool
}

func (i playlistItem) FilterValue() string { return i.item.Title }
func (i playlistItem) Title() string       { return decorate(i.item, i.playing) }
func (i playlistItem) Description() string { return describe(i.item) }

func decorate(item models.Item, playing bool) string {
	title := item.Title
	if item.Kind == models.KindAlbum {
		title = fmt.Sprintf("%s [album]", title)
	}
	if playing {
		title = fmt.Sprintf("▶ %s", title)
	}
	return title
}

func describe(item models.Item) string {
	parts := []string{item.Artist, models.FormatPrice(item.Price)}
	if item.ReleaseDate != "" {
		parts = append(parts, item.ReleaseDate)
	}
	return strings.Join(parts, " • ")
}
