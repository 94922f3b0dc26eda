// Package filter narrows and orders an in-memory list of posts for display.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quickblog-api/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DateRange limits posts to those created within a window ending now
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

// SortOption orders the filtered posts
type SortOption string

const (
	SortNewest       SortOption = "newest"
	SortOldest       SortOption = "oldest"
	SortPopular      SortOption = "popular"
	SortAlphabetical SortOption = "alphabetical"
)

// StatusFilter keeps posts with one status, or all of them
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPublished StatusFilter = StatusFilter(models.StatusPublished)
	StatusDraft     StatusFilter = StatusFilter(models.StatusDraft)
)

// Criteria describes one filter panel state. Zero values mean "no filter"
// and newest-first ordering.
type Criteria struct {
	Search    string
	Tags      []string
	DateRange DateRange
	SortBy    SortOption
	Status    StatusFilter
}

// DefaultCriteria is the cleared panel
func DefaultCriteria() Criteria {
	return Criteria{
		DateRange: RangeAll,
		SortBy:    SortNewest,
		Status:    StatusAll,
	}
}

// ActiveCount returns how many controls differ from their defaults
func (c Criteria) ActiveCount() int {
	count := 0
	if c.Search != "" {
		count++
	}
	if len(c.Tags) > 0 {
		count++
	}
	if c.DateRange != "" && c.DateRange != RangeAll {
		count++
	}
	if c.SortBy != "" && c.SortBy != SortNewest {
		count++
	}
	if c.Status != "" && c.Status != StatusAll {
		count++
	}
	return count
}

// Apply filters and sorts posts relative to the current time
func Apply(posts []*models.Post, c Criteria) []*models.Post {
	return ApplyAt(posts, c, time.Now())
}

// ApplyAt filters and sorts posts relative to now. The input slice is not modified.
func ApplyAt(posts []*models.Post, c Criteria, now time.Time) []*models.Post {
	search := strings.ToLower(c.Search)
	cutoff, hasCutoff := cutoffFor(c.DateRange, now)

	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if len(c.Tags) > 0 && !hasAnyTag(p, c.Tags) {
			continue
		}
		if hasCutoff && p.CreatedAt.Before(cutoff) {
			continue
		}
		if c.Status != "" && c.Status != StatusAll && string(p.Status) != string(c.Status) {
			continue
		}
		out = append(out, p)
	}

	sortPosts(out, c.SortBy)
	return out
}

func matchesSearch(p *models.Post, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Content), term) ||
		strings.Contains(strings.ToLower(p.Excerpt), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func hasAnyTag(p *models.Post, tags []string) bool {
	for _, tag := range tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}

// cutoffFor returns the earliest created_at kept by a date range
func cutoffFor(r DateRange, now time.Time) (time.Time, bool) {
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func sortPosts(posts []*models.Post, by SortOption) {
	switch by {
	case SortOldest:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		})
	case SortAlphabetical:
		// Collator keeps internal buffers, so one per call
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(posts, func(i, j int) bool {
			return c.CompareString(posts[i].Title, posts[j].Title) < 0
		})
	case SortPopular:
		sort.SliceStable(posts, func(i, j int) bool {
			return len(posts[i].Tags) > len(posts[j].Tags)
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}
}

// AllTags returns every distinct tag, sorted
func AllTags(posts []*models.Post) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range posts {
		if p == nil {
			continue
		}
		for _, tag := range p.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// TagCounts returns how many posts carry each tag
func TagCounts(posts []*models.Post) map[string]int {
	counts := make(map[string]int)
	for _, p := range posts {
		if p == nil {
			continue
		}
		seen := make(map[string]bool, len(p.Tags))
		for _, tag := range p.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			counts[tag]++
		}
	}
	return counts
}

func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeWeek, RangeMonth, RangeYear:
		return r, nil
	default:
		return "", fmt.Errorf("unknown date range %q (want all, today, week, month or year)", s)
	}
}

func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortPopular, SortAlphabetical:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort option %q (want newest, oldest, popular or alphabetical)", s)
	}
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return StatusAll, nil
	case StatusAll, StatusPublished, StatusDraft:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status %q (want all, published or draft)", s)
	}
}
