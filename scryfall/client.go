// Package scryfall is a small client for the Scryfall card data API.
package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.scryfall.com"
	// Scryfall caps collection lookups at 75 identifiers per request.
	collectionChunkSize = 75
	userAgent           = "commander-league/1.0"
)

var ErrCardNotFound = errors.New("card not found")

// APIError is a non-2xx Scryfall response other than 404.
type APIError struct {
	StatusCode int
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("scryfall returned status %d: %s", e.StatusCode, e.Details)
	}
	return fmt.Sprintf("scryfall returned status %d", e.StatusCode)
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// New builds a client limited to 10 requests per second.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

// Named looks a card up by its exact name.
func (c *Client) Named(ctx context.Context, exact string) (*Card, error) {
	q := url.Values{"exact": {exact}}
	var card Card
	if err := c.getJSON(ctx, c.baseURL+"/cards/named?"+q.Encode(), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Search runs a full-text query. A non-empty filter is appended to the
// query, e.g. "f:commander" or "usd<1". No matches yields an empty result.
func (c *Client) Search(ctx context.Context, query, filter string) (*SearchResult, error) {
	full := strings.TrimSpace(query)
	if filter = strings.TrimSpace(filter); filter != "" {
		full = strings.TrimSpace(full + " " + filter)
	}

	q := url.Values{"q": {full}}
	var page list
	err := c.getJSON(ctx, c.baseURL+"/cards/search?"+q.Encode(), &page)
	if errors.Is(err, ErrCardNotFound) {
		return &SearchResult{Cards: []Card{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SearchResult{TotalCards: page.TotalCards, HasMore: page.HasMore, Cards: page.Data}, nil
}

// Collection resolves names in batches, one request per batch, in order.
func (c *Client) Collection(ctx context.Context, names []string) (*CollectionResult, error) {
	result := &CollectionResult{Cards: []Card{}, NotFound: []string{}}

	for start := 0; start < len(names); start += collectionChunkSize {
		end := start + collectionChunkSize
		if end > len(names) {
			end = len(names)
		}

		type identifier struct {
			Name string `json:"name"`
		}
		body := struct {
			Identifiers []identifier `json:"identifiers"`
		}{}
		for _, n := range names[start:end] {
			body.Identifiers = append(body.Identifiers, identifier{Name: n})
		}

		var resp struct {
			Data     []Card `json:"data"`
			NotFound []struct {
				Name string `json:"name"`
			} `json:"not_found"`
		}
		if err := c.postJSON(ctx, c.baseURL+"/cards/collection", body, &resp); err != nil {
			return nil, fmt.Errorf("collection batch %d-%d: %w", start, end, err)
		}

		result.Cards = append(result.Cards, resp.Data...)
		for _, nf := range resp.NotFound {
			result.NotFound = append(result.NotFound, nf.Name)
		}
	}
	return result, nil
}

// Prints lists every printing of a card, following pagination.
func (c *Client) Prints(ctx context.Context, name string) ([]Card, error) {
	q := url.Values{
		"q":      {fmt.Sprintf("!%q", name)},
		"unique": {"prints"},
		"order":  {"released"},
	}
	next := c.baseURL + "/cards/search?" + q.Encode()

	var prints []Card
	for next != "" {
		var page list
		if err := c.getJSON(ctx, next, &page); err != nil {
			if errors.Is(err, ErrCardNotFound) && len(prints) == 0 {
				return nil, ErrCardNotFound
			}
			return nil, err
		}
		prints = append(prints, page.Data...)
		if !page.HasMore {
			break
		}
		next = page.NextPage
	}
	return prints, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build scryfall request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode scryfall request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build scryfall request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scryfall request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrCardNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Details string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Details: apiErr.Details}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode scryfall response: %w", err)
	}
	return nil
}
