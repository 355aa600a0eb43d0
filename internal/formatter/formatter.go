// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
)

// Format is an export file format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	JSON     Format = "json"
)

// ParseFormat validates a format name. Accepts the short aliases md and txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (use csv, markdown, text or json)", shared.ErrInvalidFlag, s)
	}
}

// Ext is the file extension for the format.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// Export renders items in format.
func Export(items []models.Item, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(items)
	case Markdown:
		return ExportToMarkdown(items, "")
	case Text:
		return ExportToText(items)
	case JSON:
		if items == nil {
			items = []models.Item{}
		}
		return shared.MarshalJSON(items, true)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts playlist entries to CSV format with columns: ID, Type, Title, Artist, Price, Release Date, Preview URL
func ExportToCSV(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Title", "Artist", "Price", "Release Date", "Preview URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			strconv.FormatInt(item.ID, 10),
			string(item.Kind),
			item.Title,
			item.Artist,
			strconv.FormatFloat(item.Price, 'f', 2, 64),
			item.ReleaseDate,
			item.PreviewURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts playlist entries to Markdown format with optional cover image
func ExportToMarkdown(items []models.Item, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# My Playlist\n\n")

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Entries**: %d\n", len(items)))
	buf.WriteString(fmt.Sprintf("**Total**: %s\n\n", models.FormatPrice(Total(items))))

	buf.WriteString("## Entries\n\n")
	for i, item := range items {
		kind := ""
		if item.Kind == models.KindAlbum {
			kind = " _(album)_"
		}
		date := ""
		if item.ReleaseDate != "" {
			date = fmt.Sprintf(" (%s)", item.ReleaseDate)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s [%s]\n", i+1, item.Artist, item.Title, kind, date, models.FormatPrice(item.Price)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts playlist entries to plain text format
func ExportToText(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Playlist\n")
	buf.WriteString(fmt.Sprintf("Entries: %d\n\n", len(items)))

	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, item.Artist, item.Title))
	}

	return buf.Bytes(), nil
}

// Total sums the prices of items.
func Total(items []models.Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports the playlist to Markdown format in a dedicated directory.
//
// The artwork of the first entry is downloaded as the cover when client is able to fetch it.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(items []models.Item, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "playlist"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if len(items) > 0 && items[0].Artwork != "" && items[0].Artwork != services.PlaceholderArtwork {
		imageData, err := DownloadImage(client, items[0].Artwork)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(items, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteExport renders items in format and writes them to path.
func WriteExport(items []models.Item, format Format, path string) (string, error) {
	if path == "" {
		path = "playlist" + format.Ext()
	}

	data, err := Export(items, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
