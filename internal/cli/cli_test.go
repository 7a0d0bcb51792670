package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawdown-console/internal/config"
	"drawdown-console/internal/demoengine"
	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
	"drawdown-console/internal/session"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	srv := httptest.NewServer(demoengine.NewServer(demoengine.Config{}, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		Engine:   config.EngineConfig{BaseURL: srv.URL, UserAgent: "drawdown-test"},
		Scenario: config.ScenarioConfig{TargetVol: 40, DaysAhead: 7},
		Hedging:  config.HedgingConfig{Shares: 100},
		Session:  config.SessionConfig{DBPath: filepath.Join(dir, "drawdown.db")},
		Logging:  config.LoggingConfig{Level: "info"},
		Dir:      dir,
	}
	app := NewApp(context.Background(), cfg, zerolog.Nop())
	require.NotNil(t, app.Gate)
	t.Cleanup(func() { app.Close() })
	return app
}

func execute(app *App, args ...string) (string, error) {
	cmd := NewRootCmd(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func signIn(t *testing.T, app *App) {
	t.Helper()
	_, err := execute(app, "auth", "register", "ada", "--first", "Ada", "--last", "Lovelace", "--password", "pw")
	require.NoError(t, err)
	_, err = execute(app, "auth", "login", "ada", "--password", "pw")
	require.NoError(t, err)
}

func TestAnalyticsRequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, args := range [][]string{
		{"run", "greeks", "SPY"},
		{"quote", "SPY"},
		{"chain", "SPY"},
		{"popular", "--quotes"},
	} {
		_, err := execute(app, args...)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated, "%v", args)
	}

	out, err := execute(app, "popular")
	require.NoError(t, err, "the static board needs no session")
	assert.Contains(t, out, "SPY")
}

func TestPopularQuotes(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app)

	out, err := execute(app, "popular", "--quotes")
	require.NoError(t, err)
	assert.Contains(t, out, "$450.00")
	assert.Contains(t, out, "2025-06-20")
	assert.Contains(t, out, "Coinbase Global")
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	_, err := execute(app, "auth", "register", "ada", "--first", "Ada", "--password", "pw")
	require.NoError(t, err)
	_, err = execute(app, "auth", "register", "ada", "--first", "Ada", "--password", "pw")
	assert.ErrorIs(t, err, apperrors.ErrAccountExists)

	_, err = execute(app, "auth", "login", "ada", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, session.InvalidCredentialsMessage, err.Error())

	_, err = execute(app, "auth", "login", "ada", "--password", "pw")
	require.NoError(t, err)
	out, err := execute(app, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ada")

	_, err = execute(app, "auth", "logout")
	require.NoError(t, err)
	_, err = execute(app, "run", "heatmap", "SPY")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestQuoteAndChain(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app)

	out, err := execute(app, "quote", "spy")
	require.NoError(t, err)
	assert.Contains(t, out, "SPY")
	assert.Contains(t, out, "2025-06-20")

	out, err = execute(app, "chain", "SPY")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-20")
	assert.Contains(t, out, "450 CALL")

	_, err = execute(app, "quote", "SP Y")
	var vf *apperrors.ValidationFailure
	assert.ErrorAs(t, err, &vf)
}

func TestRunAnalyzeUsesChainPrice(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app)

	// The listed 450 call last trades at 8.00 against a model price of 5.50.
	out, err := execute(app, "run", "analyze", "SPY")
	require.NoError(t, err)
	assert.Contains(t, out, "EXPENSIVE")

	out, err = execute(app, "run", "analyze", "SPY", "--market-price", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "CHEAP")
}

func TestRunSimulations(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"run", "greeks", "SPY"}, "Greeks Laboratory"},
		{[]string{"run", "vol", "TSLA"}, "Volatility Simulator"},
		{[]string{"run", "hedging", "SPY", "--shares", "200"}, "Hedging Strategy"},
		{[]string{"run", "scenario", "SPY", "--target-price", "460"}, "Scenario Simulator"},
		{[]string{"run", "heatmap", "SPY"}, "Vol: "},
	}
	for _, tt := range tests {
		out, err := execute(app, tt.args...)
		require.NoError(t, err, "%v", tt.args)
		assert.Contains(t, out, tt.want, "%v", tt.args)
	}

	_, err := execute(app, "run", "sideways", "SPY")
	assert.Error(t, err)
}

func TestRunJSONAndPNG(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app)

	out, err := execute(app, "--json", "run", "greeks", "SPY")
	require.NoError(t, err)
	var r models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, models.KindGreeksProfile, r.Kind)
	require.NotNil(t, r.Greeks)
	assert.Len(t, r.Greeks.Simulation, 21)

	path := filepath.Join(t.TempDir(), "vol.png")
	_, err = execute(app, "run", "vol", "SPY", "--png", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = execute(app, "run", "scenario", "SPY", "--png", path)
	assert.ErrorContains(t, err, "cannot be charted")
}

func TestGlossaryFilter(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(app, "glossary", "delta")
	require.NoError(t, err)
	assert.Contains(t, out, "Delta")
	assert.NotContains(t, out, "Vega")

	out, err = execute(app, "glossary", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No terms match")
}

func TestStatus(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(app, "--json", "status")
	require.NoError(t, err)
	var checks []ComponentHealth
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	require.Len(t, checks, 3)
	assert.Equal(t, HealthStatusHealthy, checks[0].Status)
	assert.Equal(t, demoengine.StatusMessage, checks[0].Message)
	assert.Equal(t, HealthStatusHealthy, checks[1].Status)
	assert.Equal(t, "signed out", checks[2].Message)
}
