package models

import (
	"slices"
	"time"
)

// SortItems orders items in place: ascending price for [SortPrice], otherwise newest release first.
//
// Both orderings are stable. Items without a parseable release date sort after dated ones.
func SortItems(items []Item, key SortKey) {
	if key == SortPrice {
		slices.SortStableFunc(items, func(a, b Item) int {
			switch {
			case a.Price < b.Price:
				return -1
			case a.Price > b.Price:
				return 1
			}
			return 0
		})
		return
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		ta, okA := releaseTime(a.ReleaseDate)
		tb, okB := releaseTime(b.ReleaseDate)
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case !okA && !okB:
			return 0
		}
		return tb.Compare(ta)
	})
}

func releaseTime(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
