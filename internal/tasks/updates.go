package tasks

import (
	"fmt"

	"github.com/desertthunder/tuneflow/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SearchKeywords Phase = iota
	AddEntries
	Complete
)

func (p Phase) String() string {
	switch p {
	case SearchKeywords:
		return "search_keywords"
	case AddEntries:
		return "add_entries"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func searchStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchKeywords,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Searching the catalog for %d keywords...", total),
	}
}

func searchMatchedUpdate(step, total int, keyword string, item models.Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchKeywords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s → %s - %s", step, total, keyword, item.Artist, item.Title),
		Data:    item,
	}
}

func searchFailedUpdate(step, total int, keyword string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchKeywords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, keyword, err),
	}
}

func addEntriesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d matches to the playlist...", total),
	}
}

func completeUpdate(result *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("✓ Added %d, skipped %d, failed %d", result.Added, result.Skipped, result.Failed),
		Data:    result,
	}
}
