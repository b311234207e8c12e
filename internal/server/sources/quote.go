package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/prodtracker/internal/common"
)

// QuoteClient fetches the quote of the day. It needs no credential and has
// a single page.
type QuoteClient struct {
	url    string
	client *http.Client
}

func NewQuoteClient(url string, client *http.Client) *QuoteClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &QuoteClient{url: url, client: client}
}

type quotePayload struct {
	Q string `json:"q"`
	A string `json:"a"`
}

func (c *QuoteClient) Fetch(ctx context.Context, _ *Credential, _ string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quote status %d", common.ErrNetwork, resp.StatusCode)
	}

	var payload []quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: quote body: %v", common.ErrNetwork, err)
	}
	if len(payload) != 1 || strings.TrimSpace(payload[0].Q) == "" {
		return nil, fmt.Errorf("%w: expected exactly one quote, got %d", common.ErrNetwork, len(payload))
	}

	return &Page{
		Items:     []RawItem{{Text: payload[0].Q, Author: payload[0].A}},
		Exhausted: true,
	}, nil
}
