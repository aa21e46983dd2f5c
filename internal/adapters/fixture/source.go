// Package fixture provides a file-backed event source with forward-only cursors.
package fixture

import (
	"cmp"
	"context"
	"encoding/base64"
	"os"
	"slices"
	"strings"

	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedSort is returned when a query sorts by a field events do not have.
var ErrUnsupportedSort = zerr.New("unsupported sort field")

// SortFields lists the event fields a query may sort by.
var SortFields = []string{"date", "title", "category", "attendees"}

// document is the on-disk layout of a fixture file.
type document struct {
	Events []domain.Event `yaml:"events"`
}

// Source serves events held in memory. Cursors are opaque tokens naming the
// last record of the previous page, so the only way forward is the token
// returned with each page.
type Source struct {
	events []domain.Event
}

// NewSource creates a Source over a copy of events.
func NewSource(events []domain.Event) *Source {
	return &Source{events: slices.Clone(events)}
}

// LoadFile reads a YAML fixture with a top-level events list.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read fixture"), "path", path)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse fixture"), "path", path)
	}

	seen := make(map[string]struct{}, len(doc.Events))
	for i, ev := range doc.Events {
		if ev.ID == "" {
			return nil, zerr.With(zerr.With(zerr.New("event without id"), "path", path), "index", i)
		}
		if _, dup := seen[ev.ID]; dup {
			return nil, zerr.With(zerr.With(zerr.New("duplicate event id"), "path", path), "id", ev.ID)
		}
		seen[ev.ID] = struct{}{}
	}
	return NewSource(doc.Events), nil
}

// Len returns the number of events the source holds.
func (s *Source) Len() int {
	return len(s.events)
}

// Query returns the page of matching events that follows q.Cursor.
func (s *Source) Query(ctx context.Context, q domain.Query) (domain.Page[domain.Event], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Event]{}, err
	}

	f := q.Filter.Normalize()
	if f.Scope != domain.EventScope {
		return domain.Page[domain.Event]{}, zerr.With(zerr.Wrap(domain.ErrUnknownScope, "fixture serves events only"), "scope", f.Scope)
	}
	compare, err := comparator(f.SortField)
	if err != nil {
		return domain.Page[domain.Event]{}, err
	}

	matched := make([]domain.Event, 0, len(s.events))
	for _, ev := range s.events {
		if matches(ev, f) {
			matched = append(matched, ev)
		}
	}
	slices.SortStableFunc(matched, func(a, b domain.Event) int {
		c := compare(a, b)
		if f.SortDirection == domain.SortDesc {
			c = -c
		}
		return cmp.Or(c, strings.Compare(a.ID, b.ID))
	})

	start := 0
	if !q.Cursor.IsStart() {
		id, err := DecodeCursor(q.Cursor)
		if err != nil {
			return domain.Page[domain.Event]{}, err
		}
		idx := slices.IndexFunc(matched, func(ev domain.Event) bool { return ev.ID == id })
		if idx < 0 {
			return domain.Page[domain.Event]{}, zerr.With(zerr.Wrap(domain.ErrInvalidCursor, "cursor does not name a record of this result set"), "cursor", string(q.Cursor))
		}
		start = idx + 1
	}

	size := q.PageSize
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	end := min(start+size, len(matched))

	total := len(matched)
	page := domain.Page[domain.Event]{
		Records:    slices.Clone(matched[start:end]),
		TotalCount: &total,
	}
	if end < len(matched) {
		page.NextCursor = EncodeCursor(matched[end-1].ID)
	}
	return page, nil
}

// EncodeCursor returns the token pointing after the record with id.
func EncodeCursor(id string) domain.Cursor {
	return domain.Cursor(base64.RawURLEncoding.EncodeToString([]byte(id)))
}

// DecodeCursor returns the record id carried by c.
func DecodeCursor(c domain.Cursor) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil || len(raw) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidCursor, "malformed cursor"), "cursor", string(c))
	}
	return string(raw), nil
}

func comparator(field string) (func(a, b domain.Event) int, error) {
	switch strings.ToLower(field) {
	case "", "date":
		return func(a, b domain.Event) int { return a.Date.Compare(b.Date) }, nil
	case "title":
		return func(a, b domain.Event) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}, nil
	case "category":
		return func(a, b domain.Event) int { return strings.Compare(a.Category, b.Category) }, nil
	case "attendees":
		return func(a, b domain.Event) int { return cmp.Compare(a.Attendees, b.Attendees) }, nil
	default:
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedSort, "cannot sort events"), "field", field)
	}
}

func matches(ev domain.Event, f domain.Filter) bool {
	if f.Category != "" && !strings.EqualFold(ev.Category, f.Category) {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	if query == "" {
		return true
	}
	title := strings.ToLower(ev.Title)
	switch f.SearchMode {
	case domain.SearchPrefix:
		return strings.HasPrefix(title, query)
	case domain.SearchContains:
		return strings.Contains(title, query) || strings.Contains(strings.ToLower(ev.Location), query)
	default:
		return true
	}
}
