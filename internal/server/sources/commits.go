package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"golang.org/x/oauth2"
)

const (
	// DefaultCommitsPageSize is the events feed page size.
	DefaultCommitsPageSize = 30
	// DefaultCommitsMaxPage is the deepest page the events feed serves.
	DefaultCommitsMaxPage = 10
)

// CommitsClient reads push events of one account from a GitHub-style
// events API. The cursor is the 1-based page number.
type CommitsClient struct {
	baseURL  string
	pageSize int
	maxPage  int
	client   *http.Client
}

func NewCommitsClient(baseURL string, pageSize, maxPage int, client *http.Client) *CommitsClient {
	if pageSize <= 0 {
		pageSize = DefaultCommitsPageSize
	}
	if maxPage <= 0 {
		maxPage = DefaultCommitsMaxPage
	}
	return &CommitsClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		maxPage:  maxPage,
		client:   client,
	}
}

type pushEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Commits []struct {
			SHA     string `json:"sha"`
			Message string `json:"message"`
		} `json:"commits"`
	} `json:"payload"`
}

func (c *CommitsClient) httpClient(ctx context.Context, cred *Credential) *http.Client {
	if c.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
	}))
}

func (c *CommitsClient) Fetch(ctx context.Context, cred *Credential, cursor string) (*Page, error) {
	if cred == nil || cred.AccessToken == "" || cred.Account == "" {
		return nil, fmt.Errorf("%w: commits credential needs a token and an account", common.ErrAuth)
	}

	page := 1
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad commits cursor %q", common.ErrCursorExpired, cursor)
		}
		page = n
	}

	u := fmt.Sprintf("%s/users/%s/events?%s", c.baseURL, url.PathEscape(cred.Account), url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(c.pageSize)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient(ctx, cred).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classifyCommitsStatus(resp); err != nil {
		if resp.StatusCode == http.StatusUnprocessableEntity {
			// past the last page the feed serves
			return &Page{Exhausted: true}, nil
		}
		return nil, err
	}

	var events []pushEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("%w: events body: %v", common.ErrNetwork, err)
	}

	out := &Page{}
	for _, ev := range events {
		if ev.Type != "PushEvent" {
			continue
		}
		for _, cm := range ev.Payload.Commits {
			out.Items = append(out.Items, RawItem{
				ID:        cm.SHA,
				Repo:      ev.Repo.Name,
				Message:   cm.Message,
				Timestamp: ev.CreatedAt,
			})
		}
	}

	if len(events) < c.pageSize || page >= c.maxPage {
		out.Exhausted = true
	} else {
		out.NextCursor = strconv.Itoa(page + 1)
	}
	return out, nil
}

func classifyCommitsStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: events status %d", common.ErrAuth, code)
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && (resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != ""):
		return fmt.Errorf("%w: events status %d", common.ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%w: events status %d", common.ErrNetwork, code)
	default:
		return fmt.Errorf("%w: events status %d", common.ErrProvider, code)
	}
}
