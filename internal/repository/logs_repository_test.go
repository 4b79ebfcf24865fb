//go:build !integration

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLogQueryOptions_Filter(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name     string
		opts     LogQueryOptions
		expected bson.M
	}{
		{
			name:     "empty options match everything",
			opts:     LogQueryOptions{},
			expected: bson.M{},
		},
		{
			name: "audit fields",
			opts: LogQueryOptions{ActionType: "order_submit", SessionID: "s-1", OrderNumber: "PRN-1"},
			expected: bson.M{
				"action_type":  "order_submit",
				"session_id":   "s-1",
				"order_number": "PRN-1",
			},
		},
		{
			name: "path is a quoted case-insensitive pattern",
			opts: LogQueryOptions{Path: "/api/sessions/:id"},
			expected: bson.M{
				"path": bson.M{"$regex": "/api/sessions/:id", "$options": "i"},
			},
		},
		{
			name: "regex metacharacters are escaped",
			opts: LogQueryOptions{Path: "/healthz?x=1"},
			expected: bson.M{
				"path": bson.M{"$regex": `/healthz\?x=1`, "$options": "i"},
			},
		},
		{
			name: "time range",
			opts: LogQueryOptions{Level: "error", StartTime: &start, EndTime: &end},
			expected: bson.M{
				"level":     "error",
				"timestamp": bson.M{"$gte": start, "$lte": end},
			},
		},
		{
			name: "open ended range",
			opts: LogQueryOptions{RequestID: "req-1", StartTime: &start},
			expected: bson.M{
				"request_id": "req-1",
				"timestamp":  bson.M{"$gte": start},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.opts.filter())
		})
	}
}
