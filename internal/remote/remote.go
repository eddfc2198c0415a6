// Package remote fetches timesheet rows from a PostgREST-style REST endpoint.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/schema"
	"github.com/samber/lo"
)

const (
	restPrefix     = "/rest/v1/"
	orderParam     = "date_spent.desc"
	requestTimeout = 30 * time.Second
)

// ErrNotConfigured is returned when no remote URL has been set.
var ErrNotConfigured = errors.New("remote source is not configured (set remote.url)")

// Entry is one time entry as served by the remote table.
type Entry struct {
	DateSpent string   `json:"date_spent"`
	User      string   `json:"user"`
	Hours     *float64 `json:"hours"`
	Project   *string  `json:"project"`
}

// Client reads time entries over HTTP. Use New to construct it.
type Client struct {
	c     *http.Client
	cfg   contract.RemoteConfig
	clock func() time.Time
}

var _ contract.RowSource = &Client{}

// New returns a Client for cfg. A nil http.Client gets a default with a timeout.
func New(c *http.Client, cfg contract.RemoteConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	if c == nil {
		c = &http.Client{Timeout: requestTimeout}
	}
	if cfg.Table == "" {
		cfg.Table = contract.DefaultRemoteTable
	}
	if cfg.Limit <= 0 {
		cfg.Limit = contract.DefaultRemoteLimit
	}
	return &Client{c: c, cfg: cfg, clock: time.Now}, nil
}

// Limit is the maximum number of rows a single Fetch returns.
func (rc *Client) Limit() int {
	return rc.cfg.Limit
}

// Fetch returns the entries inside r, newest first, mapped to raw rows.
// An empty range falls back to the recent default window.
func (rc *Client) Fetch(ctx context.Context, r schema.MonthRange) ([]schema.RawRow, error) {
	rawURL := rc.buildURL(r, true)
	req, err := rc.newRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := rc.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote fetch failed: %w", err)
	}
	defer func() { _ = drainAndClose(resp.Body) }()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode remote rows: %w", err)
	}
	return ToRawRows(entries), nil
}

// Count returns the exact number of entries inside r using a HEAD request.
func (rc *Client) Count(ctx context.Context, r schema.MonthRange) (int, error) {
	req, err := rc.newRequest(ctx, rc.buildURL(r, false))
	if err != nil {
		return 0, err
	}
	req.Method = http.MethodHead
	req.Header.Set("Prefer", "count=exact")

	resp, err := rc.c.Do(req)
	if err != nil {
		return 0, fmt.Errorf("remote count failed: %w", err)
	}
	defer func() { _ = drainAndClose(resp.Body) }()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	return ParseContentRange(resp.Header.Get("Content-Range"))
}

// EffectiveRange fills open bounds of r from the default remote window.
func (rc *Client) EffectiveRange(r schema.MonthRange) schema.MonthRange {
	return contract.FillRemoteRange(r, rc.clock())
}

func (rc *Client) buildURL(r schema.MonthRange, withOrder bool) string {
	r = rc.EffectiveRange(r)
	q := url.Values{}
	if withOrder {
		q.Set("order", orderParam)
		q.Set("limit", strconv.Itoa(rc.cfg.Limit))
	}
	q.Add("date_spent", fmt.Sprintf("gte.%s-01", r.Start))
	q.Add("date_spent", fmt.Sprintf("lte.%s-%02d", r.End, r.End.LastDay()))
	return rc.cfg.URL + restPrefix + url.PathEscape(rc.cfg.Table) + "?" + q.Encode()
}

func (rc *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if rc.cfg.Key != "" {
		req.Header.Set("apikey", rc.cfg.Key)
		req.Header.Set("Authorization", "Bearer "+rc.cfg.Key)
	}
	return req, nil
}

// ToRawRows maps remote entries onto the Date/User/Units/Project columns.
// Missing hours become 0 and a missing project stays empty for the normalizer to default.
func ToRawRows(entries []Entry) []schema.RawRow {
	return lo.Map(entries, func(e Entry, _ int) schema.RawRow {
		hours := 0.0
		if e.Hours != nil {
			hours = *e.Hours
		}
		project := ""
		if e.Project != nil {
			project = *e.Project
		}
		return schema.RawRow{
			{Name: "Date", Value: e.DateSpent},
			{Name: "User", Value: e.User},
			{Name: "Units", Value: hours},
			{Name: "Project", Value: project},
		}
	})
}

// ParseContentRange extracts the total from a header like "0-24/3573" or "*/0".
func ParseContentRange(header string) (int, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0, fmt.Errorf("invalid Content-Range header %q", header)
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("remote did not report an exact count (Content-Range %q)", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Range header %q: %w", header, err)
	}
	return n, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("remote returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
}

func drainAndClose(body io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}
