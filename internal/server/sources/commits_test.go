package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = &Credential{AccessToken: "gho_test", Account: "octocat"}

// eventsPage renders n events; every other one is a push with two commits.
func eventsPage(page, n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		ev := map[string]any{
			"id":         fmt.Sprintf("%d-%d", page, i),
			"type":       "WatchEvent",
			"created_at": time.Date(2024, 1, 5, 10, i, 0, 0, time.UTC).Format(time.RFC3339),
			"repo":       map[string]any{"name": "octocat/hello"},
		}
		if i%2 == 0 {
			ev["type"] = "PushEvent"
			ev["payload"] = map[string]any{"commits": []map[string]any{
				{"sha": fmt.Sprintf("sha-%d-%d-a", page, i), "message": "first"},
				{"sha": fmt.Sprintf("sha-%d-%d-b", page, i), "message": "second"},
			}}
		}
		out = append(out, ev)
	}
	return out
}

func TestCommitsClient_Pages(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		assert.Equal(t, "4", r.URL.Query().Get("per_page"))
		n := 4
		if page == 2 {
			n = 3
		}
		_ = json.NewEncoder(w).Encode(eventsPage(page, n))
	}))
	defer srv.Close()

	c := NewCommitsClient(srv.URL, 4, 10, srv.Client())

	p1, err := c.Fetch(context.Background(), testCred, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer gho_test", gotAuth)
	assert.Equal(t, "/users/octocat/events", gotPath)
	assert.False(t, p1.Exhausted)
	assert.Equal(t, "2", p1.NextCursor)
	require.Len(t, p1.Items, 4, "two push events with two commits each")
	assert.Equal(t, "sha-1-0-a", p1.Items[0].ID)
	assert.Equal(t, "octocat/hello", p1.Items[0].Repo)
	assert.Equal(t, "first", p1.Items[0].Message)
	assert.False(t, p1.Items[0].Timestamp.IsZero())

	p2, err := c.Fetch(context.Background(), testCred, p1.NextCursor)
	require.NoError(t, err)
	assert.True(t, p2.Exhausted, "short page ends the listing")
	assert.Empty(t, p2.NextCursor)
}

func TestCommitsClient_MaxPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(eventsPage(3, 2))
	}))
	defer srv.Close()

	p, err := NewCommitsClient(srv.URL, 2, 3, srv.Client()).Fetch(context.Background(), testCred, "3")
	require.NoError(t, err)
	assert.True(t, p.Exhausted)
}

func TestCommitsClient_Unprocessable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	p, err := NewCommitsClient(srv.URL, 30, 10, srv.Client()).Fetch(context.Background(), testCred, "9")
	require.NoError(t, err)
	assert.True(t, p.Exhausted)
	assert.Empty(t, p.Items)
}

func TestCommitsClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
		want    error
	}{
		{"unauthorized", http.StatusUnauthorized, nil, common.ErrAuth},
		{"rate limit exhausted", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "0"}, common.ErrRateLimited},
		{"secondary rate limit", http.StatusForbidden, map[string]string{"Retry-After": "60"}, common.ErrRateLimited},
		{"too many requests", http.StatusTooManyRequests, nil, common.ErrRateLimited},
		{"forbidden", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "4999"}, common.ErrProvider},
		{"not found", http.StatusNotFound, nil, common.ErrProvider},
		{"bad gateway", http.StatusBadGateway, nil, common.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewCommitsClient(srv.URL, 30, 10, srv.Client()).Fetch(context.Background(), testCred, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCommitsClient_Deadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewCommitsClient(srv.URL, 30, 10, srv.Client()).Fetch(ctx, testCred, "")
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCommitsClient_BadInput(t *testing.T) {
	c := NewCommitsClient("http://127.0.0.1:0", 30, 10, nil)

	_, err := c.Fetch(context.Background(), &Credential{AccessToken: "x"}, "")
	assert.ErrorIs(t, err, common.ErrAuth)

	_, err = c.Fetch(context.Background(), testCred, "zero")
	assert.ErrorIs(t, err, common.ErrCursorExpired)
}
