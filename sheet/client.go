package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/dahemar/baptiste4/config"
	"github.com/dahemar/baptiste4/logger"
)

// APIBase is the Sheets values API root. Tests point it at a local
// server.
var APIBase = "https://sheets.googleapis.com/v4/spreadsheets"

// Client fetches the raw cell grid from the Google Sheets values API.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(httpClient *http.Client, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.Default
	}
	return &Client{httpClient: httpClient, logger: log}
}

// valuesResponse is the values API payload. Cells arrive as arbitrary
// JSON scalars; unformatted numeric cells are not strings.
type valuesResponse struct {
	Values [][]any `json:"values"`
}

// FetchRows retrieves the configured range as a 2-D string array. The
// passed context bounds the whole exchange; cancellation tears the
// connection down rather than letting the fetch complete uselessly.
func (c *Client) FetchRows(ctx context.Context) ([][]string, error) {
	cfg := config.GetConfig()
	if cfg.SheetID == "" || cfg.SheetAPIKey == "" {
		return nil, fmt.Errorf("sheet fetch not configured (SHEET_ID / SHEET_API_KEY)")
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s?key=%s",
		APIBase,
		url.PathEscape(cfg.SheetID),
		url.PathEscape(cfg.SheetRange),
		url.QueryEscape(cfg.SheetAPIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheet fetch returned %d: %s", resp.StatusCode, string(body))
	}

	var payload valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding sheet response: %v", err)
	}

	rows := make([][]string, 0, len(payload.Values))
	for _, rawRow := range payload.Values {
		row := make([]string, 0, len(rawRow))
		for _, rawCell := range rawRow {
			row = append(row, stringifyCell(rawCell))
		}
		rows = append(rows, row)
	}

	c.logger.Debugf("Fetched %d sheet rows", len(rows))
	return rows, nil
}

func stringifyCell(v any) string {
	switch cell := v.(type) {
	case string:
		return cell
	case float64:
		return strconv.FormatFloat(cell, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(cell)
	case nil:
		return ""
	default:
		return fmt.Sprint(cell)
	}
}
