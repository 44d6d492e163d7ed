// Package workspace implements the client for the external workspace
// database that holds sats-reward and achievement records. Records are
// fetched through paginated database queries; relation pointers are
// resolved through single-record point lookups.
package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/pkg/config"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

// Client talks to the workspace HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	version string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a workspace client from configuration.
func NewClient(cfg config.WorkspaceConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		version: cfg.Version,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CleanDatabaseID strips whitespace from a configured database id and
// validates its minimum length.
func CleanDatabaseID(raw string) (string, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if len(clean) < 32 {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid workspace database id")
	}
	return clean, nil
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Record `json:"results"`
	HasMore    bool     `json:"has_more"`
	NextCursor *string  `json:"next_cursor"`
}

// QueryDatabase fetches every record of a workspace database, following
// pagination cursors until exhausted.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Record, error) {
	cleanID, err := CleanDatabaseID(databaseID)
	if err != nil {
		return nil, err
	}

	var records []Record
	cursor := ""
	for {
		page, err := c.queryPage(ctx, cleanID, cursor)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Results...)
		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}
	return records, nil
}

func (c *Client) queryPage(ctx context.Context, databaseID, cursor string) (*queryResponse, error) {
	body, err := json.Marshal(queryRequest{StartCursor: cursor})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode workspace query")
	}

	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build workspace request")
	}
	c.setHeaders(req)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWorkspace.Code, appErrors.ErrWorkspace.Status, "query workspace database")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, appErrors.Wrap(
			fmt.Errorf("workspace responded %d", res.StatusCode),
			appErrors.ErrWorkspace.Code, appErrors.ErrWorkspace.Status, "query workspace database",
		)
	}

	var page queryResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWorkspace.Code, appErrors.ErrWorkspace.Status, "decode workspace response")
	}
	return &page, nil
}

// PageTitle resolves a relation pointer to a display name. The title is
// read from the Name title property, then the Student Name title
// property, then a Name rich-text property. An empty string with nil
// error means the record carries no recognisable title.
func (c *Client) PageTitle(ctx context.Context, pageID string) (string, error) {
	url := fmt.Sprintf("%s/pages/%s", c.baseURL, pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build workspace request")
	}
	c.setHeaders(req)

	res, err := c.http.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrWorkspace.Code, appErrors.ErrWorkspace.Status, "fetch workspace page")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", appErrors.Wrap(
			fmt.Errorf("workspace responded %d", res.StatusCode),
			appErrors.ErrWorkspace.Code, appErrors.ErrWorkspace.Status, "fetch workspace page",
		)
	}

	var record Record
	if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrWorkspace.Code, appErrors.ErrWorkspace.Status, "decode workspace page")
	}

	if title := record.TitleText("Name"); title != "" {
		return title, nil
	}
	if title := record.TitleText("Student Name"); title != "" {
		return title, nil
	}
	return record.RichTextValue("Name"), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
}
