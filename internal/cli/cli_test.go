package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/logging"
	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/server/config"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t  *testing.T
	rm *repomanager.InMemoryRepositoryManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, rm: repomanager.NewInMemoryRepositoryManager()}

	origOpen := openApp
	origTerm := isTerminal
	t.Cleanup(func() {
		openApp = origOpen
		isTerminal = origTerm
	})
	openApp = func(ctx context.Context, cfg *config.Config) (*server.App, error) {
		return server.Assemble(cfg, h.rm, logging.Nop())
	}
	isTerminal = func() bool { return false }
	return h
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--owner", "alice"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// app opens the same app the commands see.
func (h *harness) app() *server.App {
	h.t.Helper()
	cfg, err := config.LoadConfig(nil, nil)
	require.NoError(h.t, err)
	app, err := openApp(context.Background(), cfg)
	require.NoError(h.t, err)
	return app
}

func TestWinsCommands(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "wins", "set", "--date", "2024-03-01", "shipped", "reviewed", "ran")
	require.NoError(t, err)

	var got winsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2024-03-01", got.Date)
	assert.Equal(t, 3, got.WinCount)
	assert.True(t, got.HasCheckmark)

	out, err = h.run("", "wins", "show", "--date", "2024-03-01")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, models.Wins{"shipped", "reviewed", "ran"}, got.Wins)
}

func TestWinsSet_TooMany(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "wins", "set", "a", "b", "c", "d")
	require.Error(t, err)
}

func TestWinsSet_BadDate(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "wins", "set", "--date", "03/01/2024", "a")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTimezoneCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "timezone")
	require.NoError(t, err)
	assert.JSONEq(t, `{"time_zone":"UTC"}`, out)

	out, err = h.run("", "timezone", "Europe/Riga")
	require.NoError(t, err)
	assert.JSONEq(t, `{"time_zone":"Europe/Riga"}`, out)

	_, err = h.run("", "timezone", "Nowhere/Special")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestConnectCommits(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("ghp_secret\n", "connect", "commits", "--account", "octo")
	require.NoError(t, err)
	assert.Contains(t, out, "commits connected as octo")

	cred, err := h.app().Credentials.Load(context.Background(), "alice", models.SourceCommits)
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", cred.AccessToken)
	assert.Equal(t, "octo", cred.Account)

	_, err = h.run("", "disconnect", "commits")
	require.NoError(t, err)
	_, err = h.app().Credentials.Load(context.Background(), "alice", models.SourceCommits)
	assert.ErrorIs(t, err, common.ErrNoCredential)
}

func TestConnectCommits_RequiresAccount(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("ghp_secret\n", "connect", "commits")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestConnectCalendar_PrintsConsentURL(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "connect", "calendar")
	require.NoError(t, err)
	assert.Contains(t, out, "state=")
	assert.Contains(t, out, "access_type=offline")
}

func TestConnectCalendar_RejectsForgedState(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "connect", "calendar", "--state", "forged", "--code", "abc")
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestSync_NothingConnected(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "sync")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestSync_ExplicitSourceWithoutCredential(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "sync", "calendar")
	assert.ErrorIs(t, err, common.ErrNoCredential)
	assert.Contains(t, out, `"error_kind": "no_credential"`)
}

func TestSync_RejectsQuoteAndUnknown(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "sync", "quote")
	require.Error(t, err)

	_, err = h.run("", "sync", "mail")
	assert.ErrorIs(t, err, common.ErrUnknownSource)
}

func TestDisconnect_UnknownSource(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "disconnect", "mail")
	assert.ErrorIs(t, err, common.ErrUnknownSource)
}

func TestStatsCommand_Range(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "wins", "set", "--date", "2024-03-02", "a", "b", "c")
	require.NoError(t, err)

	out, err := h.run("", "stats", "--from", "2024-03-01", "--to", "2024-03-02")
	require.NoError(t, err)

	var days []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &days))
	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-01", days[0]["date"])
	assert.Equal(t, false, days[0]["has_checkmark"])
	assert.Equal(t, true, days[1]["has_checkmark"])
}

func TestStatsCommand_Summary(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"streaks"`)
	assert.Contains(t, out, `"today"`)
}

func TestMigrateCommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "migrate")
	require.NoError(t, err)
}
