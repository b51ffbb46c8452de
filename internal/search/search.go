package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dost-app/dost/internal/config"
)

const (
	DefaultCount = 5
	maxCount     = 20
)

var (
	ErrNotConfigured = errors.New("search provider not configured")
	ErrUpstream      = errors.New("search provider error")
)

// Result is one normalized search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Searcher is the contract the chat loop depends on.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// Client calls the Brave web search API with Turkish language preference.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a search client. An empty API key yields a client whose
// every call fails with ErrNotConfigured.
func NewClient(cfg config.SearchConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			URL         *string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// Search returns at most count results for query. count <= 0 means DefaultCount.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if count <= 0 {
		count = DefaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("search_lang", "tr")
	params.Set("country", "TR")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling search provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("search: provider returned non-success status", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}

	results := make([]Result, 0, min(count, len(payload.Web.Results)))
	for _, r := range payload.Web.Results {
		if len(results) == count {
			break
		}
		results = append(results, Result{
			Title:   deref(r.Title),
			Snippet: deref(r.Description),
			URL:     deref(r.URL),
		})
	}
	return results, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
