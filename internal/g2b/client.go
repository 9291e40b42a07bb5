package g2b

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"G2BLeadMiner/internal/domain"
	"G2BLeadMiner/internal/ports"
)

const (
	defaultBaseURL  = "http://apis.data.go.kr/1230000/ao/PubDataOpnStdService"
	bidNoticePath   = "/getDataSetOpnStdBidPblancInfo"
	defaultPageSize = 100
	defaultAttempts = 4
	defaultTimeout  = 20 * time.Second

	// Wire format for inqryBgnDt/inqryEndDt query parameters.
	wireTimeLayout = "200601021504"
)

// ErrAuth marks authorization-class API failures. Callers must treat it
// as fatal: retrying with the same service key cannot succeed.
var ErrAuth = errors.New("인증 오류")

// Client fetches bid notices from the data.go.kr standard bid-notice
// dataset, one window at a time, one page at a time.
type Client struct {
	endpoint    string
	serviceKey  string
	mode        WindowMode
	pageSize    int
	maxAttempts int
	backoffUnit time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ ports.NoticeSource = (*Client)(nil)

// ClientOptions tune the client; zero values fall back to defaults.
type ClientOptions struct {
	BaseURL     string
	Mode        WindowMode
	PageSize    int
	MaxAttempts int
	Timeout     time.Duration
}

// NewClient wires a notice client for the given service key.
func NewClient(serviceKey string, opts ClientOptions, log *slog.Logger) *Client {
	endpoint := strings.TrimRight(opts.BaseURL, "/")
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	endpoint += bidNoticePath

	mode := opts.Mode
	if !mode.Valid() {
		mode = ModeDaily
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		endpoint:    endpoint,
		serviceKey:  serviceKey,
		mode:        mode,
		pageSize:    pageSize,
		maxAttempts: attempts,
		backoffUnit: time.Second,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log,
	}
}

// FetchRange walks every window covering [start, end] and every page
// within each window, returning normalized notices in fetch order.
// Duplicate keys across overlapping windows are kept; the caller
// deduplicates once the full range is collected.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]domain.RawNotice, error) {
	var notices []domain.RawNotice

	planner := NewWindowPlanner(start, end, c.mode)
	for {
		window, ok := planner.Next()
		if !ok {
			break
		}
		c.debug("fetch window",
			"from", window.Start.Format(wireTimeLayout),
			"to", window.End.Format(wireTimeLayout))

		for page := 1; ; page++ {
			body, err := c.fetchPage(ctx, window, page)
			if err != nil {
				return nil, fmt.Errorf("window %s page %d: %w",
					window.Start.Format("2006-01-02"), page, err)
			}

			if len(body.Items) == 0 {
				break
			}
			for _, item := range body.Items {
				notices = append(notices, NormalizeNotice(item))
			}
			c.debug("page fetched", "page", page, "items", len(body.Items), "total", int(body.TotalCount))

			// Each window reports its own total count.
			if page*c.pageSize >= int(body.TotalCount) {
				break
			}
		}
	}

	return notices, nil
}

// fetchPage performs one request with bounded retry. Outcomes are
// classified explicitly: success short-circuits, permanent errors abort,
// retryable errors back off and try again until attempts run out.
func (c *Client) fetchPage(ctx context.Context, window Window, page int) (*pageBody, error) {
	query := url.Values{}
	query.Set("serviceKey", c.serviceKey)
	query.Set("pageNo", strconv.Itoa(page))
	query.Set("numOfRows", strconv.Itoa(c.pageSize))
	query.Set("type", "json")
	query.Set("inqryBgnDt", window.Start.Format(wireTimeLayout))
	query.Set("inqryEndDt", window.End.Format(wireTimeLayout))

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, retryable, err := c.doRequest(ctx, query)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		if attempt == c.maxAttempts {
			break
		}

		delay := backoffDelay(attempt, c.backoffUnit)
		c.debug("retrying request", "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("API 호출 실패 (%d attempts): %w", c.maxAttempts, lastErr)
}

// doRequest issues one GET and reports whether a failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, query url.Values) (*pageBody, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request notices: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, fmt.Errorf("%w(%d) - 서비스키/권한 확인 필요", ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("api returned %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("api returned %s", resp.Status)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, true, fmt.Errorf("decode response: %w", err)
	}

	return &envelope.Response.Body, false, nil
}

func backoffDelay(attempt int, unit time.Duration) time.Duration {
	steps := 1 << attempt
	if steps > 8 {
		steps = 8
	}
	return time.Duration(steps) * unit
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

type apiEnvelope struct {
	Response struct {
		Body pageBody `json:"body"`
	} `json:"response"`
}

type pageBody struct {
	TotalCount flexCount `json:"totalCount"`
	Items      itemList  `json:"items"`
}

// flexCount tolerates totalCount arriving as a number or a quoted number.
type flexCount int

func (c *flexCount) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("totalCount %q: %w", text, err)
	}
	*c = flexCount(n)
	return nil
}

// itemList tolerates the two shapes the API has been observed to emit:
// a bare list, or a single {"item": [...]} wrapper. Empty or missing
// values normalize to an empty list.
type itemList []map[string]any

func (l *itemList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" || string(trimmed) == `""` {
		*l = nil
		return nil
	}

	if trimmed[0] == '[' {
		var direct []map[string]any
		if err := json.Unmarshal(trimmed, &direct); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
		*l = direct
		return nil
	}

	var wrapped struct {
		Item []map[string]any `json:"item"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return fmt.Errorf("decode wrapped items: %w", err)
	}
	*l = wrapped.Item
	return nil
}
