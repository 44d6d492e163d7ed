package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/pkg/config"
)

const testDatabaseID = "0123456789abcdef0123456789abcdef"

func newTestClient(t *testing.T, handler http.Handler) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(config.WorkspaceConfig{
		BaseURL: server.URL,
		APIKey:  "secret",
		Version: "2022-06-28",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return client, server.Close
}

func TestCleanDatabaseID(t *testing.T) {
	clean, err := CleanDatabaseID("  0123456789abcdef 0123456789abcdef  ")
	require.NoError(t, err)
	assert.Equal(t, testDatabaseID, clean)

	_, err = CleanDatabaseID("short")
	require.Error(t, err)
}

func TestQueryDatabaseFollowsPagination(t *testing.T) {
	var cursors []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		require.True(t, strings.HasSuffix(r.URL.Path, "/databases/"+testDatabaseID+"/query"))

		var req struct {
			StartCursor string `json:"start_cursor"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		cursors = append(cursors, req.StartCursor)

		next := "cursor-2"
		page := map[string]interface{}{
			"results":     []Record{{ID: "rec-" + req.StartCursor}},
			"has_more":    req.StartCursor == "",
			"next_cursor": &next,
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	})
	client, cleanup := newTestClient(t, handler)
	defer cleanup()

	records, err := client.QueryDatabase(context.Background(), testDatabaseID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, []string{"", "cursor-2"}, cursors)
}

func TestQueryDatabaseErrorStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client, cleanup := newTestClient(t, handler)
	defer cleanup()

	_, err := client.QueryDatabase(context.Background(), testDatabaseID)
	require.Error(t, err)
}

func TestPageTitleFallbacks(t *testing.T) {
	pages := map[string]Record{
		"page-name": {
			ID: "page-name",
			Properties: map[string]Property{
				"Name": {Title: []RichText{{PlainText: "Alice"}}},
			},
		},
		"page-student-name": {
			ID: "page-student-name",
			Properties: map[string]Property{
				"Student Name": {Title: []RichText{{PlainText: "Bob"}}},
			},
		},
		"page-rich-text": {
			ID: "page-rich-text",
			Properties: map[string]Property{
				"Name": {RichText: []RichText{{PlainText: "Carol"}}},
			},
		},
		"page-empty": {ID: "page-empty"},
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/pages/")
		record, ok := pages[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(record))
	})
	client, cleanup := newTestClient(t, handler)
	defer cleanup()

	for pageID, want := range map[string]string{
		"page-name":         "Alice",
		"page-student-name": "Bob",
		"page-rich-text":    "Carol",
		"page-empty":        "",
	} {
		title, err := client.PageTitle(context.Background(), pageID)
		require.NoError(t, err, pageID)
		assert.Equal(t, want, title, pageID)
	}

	_, err := client.PageTitle(context.Background(), "missing")
	require.Error(t, err)
}

func TestRecordNumberValuePrefersPlainNumber(t *testing.T) {
	amount := 25.0
	formula := 99.0
	record := Record{Properties: map[string]Property{
		"Amount": {Number: &amount, Formula: &Formula{Number: &formula}},
	}}
	assert.Equal(t, 25.0, record.NumberValue("Amount"))
	assert.Equal(t, 0.0, record.NumberValue("Missing"))
}
