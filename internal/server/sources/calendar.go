package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const DefaultCalendarPageSize = 250

// CalendarClient lists events of one calendar through the Calendar v3 API.
// A first run lists a window of recent days; exhaustion yields the
// provider's sync token, and later runs list only what changed since.
type CalendarClient struct {
	endpoint   string
	calendarID string
	window     time.Duration
	pageSize   int64
	client     *http.Client
	now        func() time.Time
}

// CalendarOption tweaks a CalendarClient.
type CalendarOption func(*CalendarClient)

// WithCalendarEndpoint points the client at another API root, such as a
// test server.
func WithCalendarEndpoint(endpoint string) CalendarOption {
	return func(c *CalendarClient) { c.endpoint = endpoint }
}

// WithCalendarHTTPClient sets the base transport under the bearer token.
func WithCalendarHTTPClient(client *http.Client) CalendarOption {
	return func(c *CalendarClient) { c.client = client }
}

// WithCalendarClock replaces time.Now for the listing window.
func WithCalendarClock(now func() time.Time) CalendarOption {
	return func(c *CalendarClient) { c.now = now }
}

// WithCalendarPageSize sets maxResults per page.
func WithCalendarPageSize(n int64) CalendarOption {
	return func(c *CalendarClient) { c.pageSize = n }
}

func NewCalendarClient(calendarID string, windowDays int, opts ...CalendarOption) *CalendarClient {
	if calendarID == "" {
		calendarID = "primary"
	}
	c := &CalendarClient{
		calendarID: calendarID,
		window:     time.Duration(windowDays) * 24 * time.Hour,
		pageSize:   DefaultCalendarPageSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// calendarCursor is the position inside a listing. timeMin pins the window
// of a full listing so continuation pages repeat the first page's query.
type calendarCursor struct {
	pageToken string
	syncToken string
	timeMin   string
}

func parseCalendarCursor(s string) (calendarCursor, error) {
	v, err := url.ParseQuery(s)
	if err != nil {
		return calendarCursor{}, err
	}
	return calendarCursor{pageToken: v.Get("page"), syncToken: v.Get("sync"), timeMin: v.Get("min")}, nil
}

func (c calendarCursor) String() string {
	v := url.Values{}
	if c.pageToken != "" {
		v.Set("page", c.pageToken)
	}
	if c.syncToken != "" {
		v.Set("sync", c.syncToken)
	}
	if c.timeMin != "" {
		v.Set("min", c.timeMin)
	}
	return v.Encode()
}

func (c *CalendarClient) service(ctx context.Context, cred *Credential) (*calendar.Service, error) {
	if c.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	}
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
	}))
	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return calendar.NewService(ctx, opts...)
}

func (c *CalendarClient) Fetch(ctx context.Context, cred *Credential, cursor string) (*Page, error) {
	if cred == nil || cred.AccessToken == "" {
		return nil, fmt.Errorf("%w: calendar credential has no access token", common.ErrAuth)
	}
	cur, err := parseCalendarCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: bad calendar cursor: %v", common.ErrCursorExpired, err)
	}

	svc, err := c.service(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("%w: calendar client: %v", common.ErrProvider, err)
	}

	call := svc.Events.List(c.calendarID).Context(ctx).SingleEvents(true).MaxResults(c.pageSize)
	if cur.syncToken != "" {
		call = call.SyncToken(cur.syncToken)
	} else {
		if cur.timeMin == "" {
			cur.timeMin = c.now().Add(-c.window).UTC().Format(time.RFC3339)
		}
		call = call.TimeMin(cur.timeMin)
	}
	if cur.pageToken != "" {
		call = call.PageToken(cur.pageToken)
	}

	res, err := call.Do()
	if err != nil {
		return nil, classifyCalendarError(err)
	}

	out := &Page{}
	for _, ev := range res.Items {
		start, allDay := eventTime(ev.Start)
		end, _ := eventTime(ev.End)
		out.Items = append(out.Items, RawItem{
			ID:        ev.Id,
			Summary:   ev.Summary,
			Start:     start,
			End:       end,
			AllDay:    allDay,
			Cancelled: ev.Status == "cancelled",
		})
	}

	if res.NextPageToken != "" {
		out.NextCursor = calendarCursor{pageToken: res.NextPageToken, syncToken: cur.syncToken, timeMin: cur.timeMin}.String()
	} else {
		out.Exhausted = true
		out.NextCursor = calendarCursor{syncToken: res.NextSyncToken}.String()
	}
	return out, nil
}

// eventTime reads a timed or all-day boundary. An all-day boundary is a
// civil date, returned as midnight UTC with allDay set. A missing or
// malformed boundary yields the zero time.
func eventTime(dt *calendar.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t, false
		}
		return time.Time{}, false
	}
	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func classifyCalendarError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	switch {
	case gerr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", common.ErrAuth, gerr)
	case gerr.Code == http.StatusGone:
		return fmt.Errorf("%w: %v", common.ErrCursorExpired, gerr)
	case gerr.Code == http.StatusTooManyRequests, gerr.Code == http.StatusForbidden && isRateLimitReason(gerr):
		return fmt.Errorf("%w: %v", common.ErrRateLimited, gerr)
	case gerr.Code >= 500:
		return fmt.Errorf("%w: %v", common.ErrNetwork, gerr)
	default:
		return fmt.Errorf("%w: %v", common.ErrProvider, gerr)
	}
}

func isRateLimitReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}
