package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tally/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("backend unavailable"),
			wantMessages: []string{"backend unavailable"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("quota exceeded"), "failed to load page"),
				"list events",
			),
			wantMessages: []string{"list events", "failed to load page", "quota exceeded"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name: "metadata on a wrapped link",
			err: zerr.With(
				zerr.With(zerr.Wrap(errors.New("quota exceeded"), "failed to load page"), "page", 3),
				"target", 7,
			),
			wantMessages: []string{"failed to load page", "quota exceeded"},
			wantMetadata: []map[string]any{{"page": 3, "target": 7}, nil},
		},
		{
			name:         "metadata on a plain error folds into it",
			err:          zerr.With(errors.New("permission denied"), "path", "/tmp/x"),
			wantMessages: []string{"permission denied"},
			wantMetadata: []map[string]any{{"path": "/tmp/x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			assert.Len(t, entries, len(tt.wantMessages))
			for i, want := range tt.wantMessages {
				assert.Equal(t, want, entries[i].Message, "message at %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata at %d", i)
			}
		})
	}

	assert.Empty(t, logger.CollectErrorEntriesExported(nil))
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "causes",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "sorted metadata",
			entries: []logger.ErrorEntry{
				{Message: "error", Metadata: map[string]any{"page": 2, "key": "events:"}},
				{Message: "cause", Metadata: map[string]any{"target": 9}},
			},
			want: "Error: error\n       key: events:\n       page: 2\n\n  Caused by:\n    → cause\n      target: 9",
		},
		{
			name:    "multiline message",
			entries: []logger.ErrorEntry{{Message: "line1\nline2"}},
			want:    "Error: line1\n       line2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
