package notifications

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Filter selects notifications by type. The zero value matches all types.
type Filter string

// FilterAll matches every notification.
const FilterAll Filter = "all"

// ParseFilter converts s into a Filter. An empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	if !Type(s).Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
	return Filter(s), nil
}

func (f Filter) match(t Type) bool {
	return f == "" || f == FilterAll || Type(f) == t
}

// Order is the direction views are sorted by timestamp.
type Order string

const (
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

// ParseOrder converts s into an Order. An empty string means OrderNewest.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "", OrderNewest:
		return OrderNewest, nil
	case OrderOldest:
		return OrderOldest, nil
	default:
		return "", fmt.Errorf("unknown order %q", s)
	}
}

// Query describes a view over a snapshot. The zero value returns every
// notification, newest first. Query is comparable and can be used as a map key.
type Query struct {
	Filter     Filter
	Search     string
	Order      Order
	OnlyUnread bool
	Limit      int // 0 means no limit
}

// Filtered returns the notifications of snapshot that match filter and
// contain search in their title or message, newest first. Matching is
// case-insensitive; empty or whitespace-only search matches everything.
// The snapshot is not modified.
func Filtered(snapshot []Notification, filter Filter, search string) []Notification {
	return Run(snapshot, Query{Filter: filter, Search: search})
}

// Run evaluates q against snapshot. Ties on timestamp are broken by id
// ascending in both directions.
func Run(snapshot []Notification, q Query) []Notification {
	needle := strings.TrimSpace(q.Search)
	var fold cases.Caser
	if needle != "" {
		fold = cases.Fold()
		needle = fold.String(needle)
	}

	out := make([]Notification, 0, len(snapshot))
	for _, n := range snapshot {
		if !q.Filter.match(n.Type) {
			continue
		}
		if q.OnlyUnread && n.IsRead {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(n.Title), needle) &&
			!strings.Contains(fold.String(n.Message), needle) {
			continue
		}
		out = append(out, n)
	}

	newestFirst := q.Order != OrderOldest
	slices.SortStableFunc(out, func(a, b Notification) int {
		c := a.Timestamp.Compare(b.Timestamp)
		if newestFirst {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// DayGroup is a run of notifications that share a calendar day.
type DayGroup struct {
	Day           time.Time      `json:"day"`
	Notifications []Notification `json:"notifications"`
}

// GroupByDay splits an already ordered view into consecutive groups by the
// calendar day of each timestamp in loc. A nil loc means UTC.
func GroupByDay(view []Notification, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}

	var groups []DayGroup
	for _, n := range view {
		ts := n.Timestamp.In(loc)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		if last := len(groups) - 1; last >= 0 && groups[last].Day.Equal(day) {
			groups[last].Notifications = append(groups[last].Notifications, n)
			continue
		}
		groups = append(groups, DayGroup{Day: day, Notifications: []Notification{n}})
	}
	return groups
}
