// package formatter renders merge results to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/p2c/internal/shared"
	"github.com/desertthunder/p2c/internal/tasks"
)

// Format is an output format for a run report.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// FormatFor picks the report format from the file extension of path, defaulting to plain text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".md", ".markdown":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

func errorText(r tasks.ItemResult) string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// ExportToCSV converts a MergeResult to CSV format with columns: Key, Title, Type, Section, Status, Error
func ExportToCSV(result *tasks.MergeResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Key", "Title", "Type", "Section", "Status", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range result.Items {
		record := []string{
			r.Item.Key,
			r.Item.Title,
			r.Item.Type,
			strconv.Itoa(r.Item.LibrarySectionID),
			r.Status.String(),
			errorText(r),
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

// ExportToMarkdown converts a MergeResult to Markdown format
func ExportToMarkdown(result *tasks.MergeResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", result.Collection))
	buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", result.Playlist.Title))
	buf.WriteString(fmt.Sprintf("**Library**: %s (%d)\n", result.Section.Title, result.Section.Key))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", len(result.Items)))
	buf.WriteString(fmt.Sprintf("**Added**: %d\n\n", result.Count(tasks.StatusAdded)))

	buf.WriteString("## Items\n\n")
	for i, r := range result.Items {
		line := fmt.Sprintf("%d. %s (%s) [%s]", i+1, r.Item.Title, r.Item.Type, r.Status)
		if r.Err != nil {
			line += fmt.Sprintf(": %v", r.Err)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a MergeResult to plain text format
func ExportToText(result *tasks.MergeResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.Playlist.Title))
	buf.WriteString(fmt.Sprintf("Library: %s\n", result.Section.Title))
	buf.WriteString(fmt.Sprintf("Collection: %s\n", result.Collection))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(result.Items)))

	for i, r := range result.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, r.Item.Title, r.Status))
	}

	return buf.Bytes(), nil
}

type itemReport struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Section int    `json:"section"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

type mergeReport struct {
	Playlist   string         `json:"playlist"`
	Section    int            `json:"section"`
	Library    string         `json:"library"`
	Collection string         `json:"collection"`
	Counts     map[string]int `json:"counts"`
	Items      []itemReport   `json:"items"`
}

// ExportToJSON converts a MergeResult to indented JSON
func ExportToJSON(result *tasks.MergeResult) ([]byte, error) {
	report := mergeReport{
		Playlist:   result.Playlist.Title,
		Section:    result.Section.Key,
		Library:    result.Section.Title,
		Collection: result.Collection,
		Counts:     map[string]int{},
		Items:      make([]itemReport, 0, len(result.Items)),
	}

	for _, r := range result.Items {
		report.Counts[r.Status.String()]++
		report.Items = append(report.Items, itemReport{
			Key:     r.Item.Key,
			Title:   r.Item.Title,
			Type:    r.Item.Type,
			Section: r.Item.LibrarySectionID,
			Status:  r.Status.String(),
			Error:   errorText(r),
		})
	}

	return shared.MarshalJSON(report, true)
}

// Export renders result in the given format.
func Export(result *tasks.MergeResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(result)
	case FormatMarkdown:
		return ExportToMarkdown(result)
	case FormatJSON:
		return ExportToJSON(result)
	default:
		return ExportToText(result)
	}
}

// WriteReport writes result to path in the format implied by its extension and returns that format.
func WriteReport(result *tasks.MergeResult, path string) (Format, error) {
	if path == "" {
		return "", fmt.Errorf("%w: report path", shared.ErrMissingArgument)
	}
	if result == nil {
		return "", fmt.Errorf("%w: no merge result to report", shared.ErrInvalidInput)
	}

	format := FormatFor(path)
	data, err := Export(result, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return format, nil
}
