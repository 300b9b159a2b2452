// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/autoluxe/pkg/slice"
)

// # Filters

// ByCategory returns the videos of one tab; [CategoryAll] returns a copy of everything.
func ByCategory(videos []Video, category Category) []Video {
	if category == CategoryAll || category == "" {
		return slices.Clone(videos)
	}
	return slice.Filter(videos, func(v Video) bool { return v.Category == category })
}

// Search matches query against title, description, tags and uploader, case-insensitively.
// A blank query returns a copy of videos.
func Search(videos []Video, query string) []Video {
	needle := fold(query)
	if needle == "" {
		return slices.Clone(videos)
	}

	return slice.Filter(videos, func(v Video) bool {
		if strings.Contains(fold(v.Title), needle) ||
			strings.Contains(fold(v.Description), needle) ||
			strings.Contains(fold(v.Uploader), needle) {
			return true
		}
		return slices.ContainsFunc(v.Tags, func(tag string) bool {
			return strings.Contains(fold(tag), needle)
		})
	})
}

// Featured returns the first limit featured videos in authored order.
func Featured(videos []Video, limit int) []Video {
	return slice.Take(slice.Filter(videos, func(v Video) bool { return v.Featured }), limit)
}

// Related returns up to limit other videos sharing the category or any tag, in authored order.
func Related(videos []Video, current Video, limit int) []Video {
	related := slice.Filter(videos, func(v Video) bool {
		if v.ID == current.ID {
			return false
		}
		if v.Category == current.Category {
			return true
		}
		return slices.ContainsFunc(v.Tags, func(tag string) bool {
			return slices.Contains(current.Tags, tag)
		})
	})
	return slice.Take(related, limit)
}

// # Sort

// Sort returns a stably sorted copy of videos.
func Sort(videos []Video, key SortKey) []Video {
	out := slices.Clone(videos)
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key SortKey) func(a, b Video) int {
	switch key {
	case SortPopular:
		return func(a, b Video) int { return cmp.Compare(ViewCount(b.Views), ViewCount(a.Views)) }
	case SortDuration:
		return func(a, b Video) int { return cmp.Compare(DurationSeconds(a.Duration), DurationSeconds(b.Duration)) }
	default:
		return func(a, b Video) int { return b.UploadDate.Compare(a.UploadDate) }
	}
}

// # Formatting

// ViewCount extracts the digits of a displayed count ("45,230" is 45230). No digits is zero.
func ViewCount(views string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, views)

	count, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

// DurationSeconds parses "mm:ss". Anything else is zero.
func DurationSeconds(duration string) int {
	minutes, seconds, ok := strings.Cut(strings.TrimSpace(duration), ":")
	if !ok {
		return 0
	}

	m, errM := strconv.Atoi(minutes)
	s, errS := strconv.Atoi(seconds)
	if errM != nil || errS != nil {
		return 0
	}
	return m*60 + s
}

// FormatViews abbreviates a view count: "1.2M", "45K" or the plain number.
func FormatViews(views string) string {
	count := ViewCount(views)
	switch {
	case count >= 1_000_000:
		return strconv.FormatFloat(float64(count)/1_000_000, 'f', 1, 64) + "M"
	case count >= 1_000:
		return strconv.FormatFloat(float64(count)/1_000, 'f', 0, 64) + "K"
	}
	return strconv.FormatInt(count, 10)
}

// FormatAge renders an upload date relative to now ("3 weeks ago").
func FormatAge(uploaded, now time.Time) string {
	days := int(now.Sub(uploaded).Abs().Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	}
	return fmt.Sprintf("%d years ago", days/365)
}

// fold builds a fresh Caser per call; a [cases.Caser] is not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
