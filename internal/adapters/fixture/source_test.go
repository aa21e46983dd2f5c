package fixture_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tally/internal/adapters/fixture"
	"go.trai.ch/tally/internal/core/domain"
)

var day0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "e1", Title: "Go Meetup", Category: "meetup", Date: day0.AddDate(0, 0, 2), Location: "Berlin", Attendees: 40},
		{ID: "e2", Title: "Gopher Workshop", Category: "workshop", Date: day0, Location: "Remote", Attendees: 12},
		{ID: "e3", Title: "Security Summit", Category: "conference", Date: day0.AddDate(0, 0, 1), Location: "Oslo", Attendees: 300},
		{ID: "e4", Title: "Go Conference", Category: "conference", Date: day0.AddDate(0, 0, 3), Location: "Berlin", Attendees: 800},
		{ID: "e5", Title: "Data Social", Category: "social", Date: day0.AddDate(0, 0, 4), Location: "Gothenburg", Attendees: 25},
	}
}

func ids(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func eventsQuery(f domain.Filter, cursor domain.Cursor, size int) domain.Query {
	f.Scope = domain.EventScope
	return domain.Query{Filter: f, Cursor: cursor, PageSize: size}
}

func TestSource_WalksPagesWithCursors(t *testing.T) {
	src := fixture.NewSource(sampleEvents())
	ctx := context.Background()
	f := domain.Filter{SortField: "date"}

	p1, err := src.Query(ctx, eventsQuery(f, domain.StartCursor, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"e2", "e3"}, ids(p1.Records))
	require.True(t, p1.HasMore())
	require.NotNil(t, p1.TotalCount)
	assert.Equal(t, 5, *p1.TotalCount)

	p2, err := src.Query(ctx, eventsQuery(f, p1.NextCursor, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e4"}, ids(p2.Records))

	p3, err := src.Query(ctx, eventsQuery(f, p2.NextCursor, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"e5"}, ids(p3.Records))
	assert.False(t, p3.HasMore())
}

func TestSource_ExactMultipleHasNoTrailingCursor(t *testing.T) {
	src := fixture.NewSource(sampleEvents()[:4])

	p1, err := src.Query(context.Background(), eventsQuery(domain.Filter{}, domain.StartCursor, 2))
	require.NoError(t, err)
	p2, err := src.Query(context.Background(), eventsQuery(domain.Filter{}, p1.NextCursor, 2))
	require.NoError(t, err)

	assert.Len(t, p2.Records, 2)
	assert.False(t, p2.HasMore())
}

func TestSource_FiltersAndSorts(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{
			name:   "category",
			filter: domain.Filter{SortField: "date", Category: "Conference"},
			want:   []string{"e3", "e4"},
		},
		{
			name:   "attendees descending",
			filter: domain.Filter{SortField: "attendees", SortDirection: domain.SortDesc},
			want:   []string{"e4", "e3", "e1", "e5", "e2"},
		},
		{
			name:   "title prefix",
			filter: domain.Filter{SortField: "title", SearchMode: domain.SearchPrefix, SearchQuery: "go"},
			want:   []string{"e4", "e1", "e2"},
		},
		{
			name:   "contains matches location",
			filter: domain.Filter{SortField: "date", SearchMode: domain.SearchContains, SearchQuery: "berlin"},
			want:   []string{"e1", "e4"},
		},
		{
			name:   "no search mode ignores query",
			filter: domain.Filter{SortField: "date", SearchQuery: "berlin"},
			want:   []string{"e2", "e3", "e1", "e4", "e5"},
		},
	}

	src := fixture.NewSource(sampleEvents())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := src.Query(context.Background(), eventsQuery(tt.filter, domain.StartCursor, 10))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Records))
		})
	}
}

func TestSource_Errors(t *testing.T) {
	src := fixture.NewSource(sampleEvents())
	ctx := context.Background()

	_, err := src.Query(ctx, eventsQuery(domain.Filter{}, "!!not-base64", 2))
	require.ErrorIs(t, err, domain.ErrInvalidCursor)

	_, err = src.Query(ctx, eventsQuery(domain.Filter{}, fixture.EncodeCursor("missing"), 2))
	require.ErrorIs(t, err, domain.ErrInvalidCursor)

	_, err = src.Query(ctx, eventsQuery(domain.Filter{SortField: "venue"}, domain.StartCursor, 2))
	require.ErrorIs(t, err, fixture.ErrUnsupportedSort)

	_, err = src.Query(ctx, domain.Query{Filter: domain.Filter{Scope: "attendees"}})
	require.ErrorIs(t, err, domain.ErrUnknownScope)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.Query(canceled, eventsQuery(domain.Filter{}, domain.StartCursor, 2))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCursor_RoundTrip(t *testing.T) {
	id, err := fixture.DecodeCursor(fixture.EncodeCursor("evt-0042"))
	require.NoError(t, err)
	assert.Equal(t, "evt-0042", id)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`events:
  - id: a
    title: Go Meetup
    category: meetup
    date: 2026-03-01T18:00:00Z
    location: Berlin
    attendees: 40
  - id: b
    title: Data Social
    category: social
    date: 2026-03-02T18:00:00Z
    attendees: 12
`), 0o600))

	src, err := fixture.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	page, err := src.Query(context.Background(), eventsQuery(domain.Filter{}, domain.StartCursor, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(page.Records))
	assert.Equal(t, time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), page.Records[0].Date)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "events: [\n"},
		{name: "missing id", content: "events:\n  - title: x\n"},
		{name: "duplicate id", content: "events:\n  - id: a\n  - id: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := fixture.LoadFile(path)
			require.Error(t, err)
		})
	}

	_, err := fixture.LoadFile(filepath.Join(dir, "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDemo_IsDeterministic(t *testing.T) {
	a := fixture.Demo(30, day0)
	b := fixture.Demo(30, day0)

	require.Len(t, a, 30)
	assert.Equal(t, a, b)
	assert.Equal(t, "evt-0001", a[0].ID)
	assert.Equal(t, day0.AddDate(0, 0, 29), a[29].Date)
}
