package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawdown-console/internal/console"
	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
	"drawdown-console/internal/session"
	"drawdown-console/internal/store"
)

type stubEngine struct {
	failRun error
}

func (e *stubEngine) ResolveInstrument(_ context.Context, ticker string) (*models.InstrumentSnapshot, error) {
	price := 450.25
	return &models.InstrumentSnapshot{
		Ticker:       ticker,
		CurrentPrice: &price,
		Expirations:  []string{"2025-06-20", "2025-07-18"},
	}, nil
}

func (e *stubEngine) FetchChain(_ context.Context, ticker, expiry string) (*models.Chain, error) {
	return &models.Chain{
		Ticker: ticker,
		Expiry: expiry,
		Calls: []models.ContractQuote{
			{Strike: 440, LastPrice: 15, Volume: 10, Side: models.Call},
			{Strike: 450, LastPrice: 9.5, Volume: 20, Side: models.Call},
		},
	}, nil
}

func (e *stubEngine) Simulate(_ context.Context, p models.AnalysisParams) (*models.AnalysisResult, error) {
	if e.failRun != nil {
		return nil, e.failRun
	}
	return &models.AnalysisResult{
		Kind:      p.Kind,
		Valuation: &models.Valuation{Verdict: "CHEAP", MarketPrice: p.MarketPrice, ModelPrice: 11, PercentMispricing: -13.6},
	}, nil
}

func newGate(t *testing.T, register bool) *session.Gate {
	t.Helper()
	ctx := context.Background()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	g, err := session.NewGate(ctx, st, nil, zerolog.Nop())
	require.NoError(t, err)
	if register {
		_, err = g.Register(ctx, session.Registration{FirstName: "Ada", AccountID: "ada", Password: "pw"})
		require.NoError(t, err)
	}
	return g
}

func newModel(t *testing.T, eng *stubEngine, gate *session.Gate) Model {
	t.Helper()
	cons := console.New(map[console.ScreenKind]console.Inputs{
		console.ScreenLive: {Ticker: "SPY"},
	}, zerolog.Nop())
	return New(context.Background(), cons, eng, gate, zerolog.Nop())
}

// drain runs cmd and feeds every message it yields back into the model.
// Commands that do not finish promptly (cursor blinks) are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		ch := make(chan tea.Msg, 1)
		go func() { ch <- c() }()

		var msg tea.Msg
		select {
		case msg = <-ch:
		case <-time.After(100 * time.Millisecond):
			continue
		}

		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case eventMsg:
			next, follow := m.Update(msg)
			m = next.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func typeText(t *testing.T, m Model, text string) Model {
	for _, r := range text {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestLoginGate(t *testing.T) {
	m := newModel(t, &stubEngine{}, newGate(t, true))
	require.Equal(t, modeLogin, m.mode)
	assert.Contains(t, m.View(), "Sign in")

	m = typeText(t, m, "ada")
	m = press(t, m, key(tea.KeyTab))
	m = typeText(t, m, "nope")
	m = press(t, m, key(tea.KeyEnter))
	assert.Equal(t, modeLogin, m.mode)
	assert.Equal(t, session.InvalidCredentialsMessage, m.loginErr)
	assert.Empty(t, m.password.Value(), "password is cleared after an attempt")

	m = typeText(t, m, "pw")
	m = press(t, m, key(tea.KeyEnter))
	require.Equal(t, modeConsole, m.mode)

	live := m.cons.Screen(console.ScreenLive)
	require.NotNil(t, live.Snapshot)
	assert.Equal(t, "450", live.Strike)
	assert.Equal(t, "2025-06-20", live.Expiry)
	assert.Equal(t, console.ChainReady, live.ChainState())
	assert.Contains(t, m.View(), "440 CALL")
}

func TestActiveSessionSkipsLogin(t *testing.T) {
	gate := newGate(t, true)
	_, err := gate.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)

	m := newModel(t, &stubEngine{}, gate)
	require.Equal(t, modeConsole, m.mode)
	m = drain(t, m, m.Init())
	assert.NotNil(t, m.cons.Screen(console.ScreenLive).Snapshot)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, modeLogin, m.mode)
	assert.False(t, gate.IsActive())
}

func TestSelectContractRunsValuation(t *testing.T) {
	gate := newGate(t, true)
	_, err := gate.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	m := newModel(t, &stubEngine{}, gate)
	m = drain(t, m, m.Init())

	// Focus the chain panel: ticker, strike, expiry, chain.
	for i := 0; i < 3; i++ {
		m = press(t, m, key(tea.KeyTab))
	}
	require.Equal(t, fieldChain, m.focused())
	m = press(t, m, key(tea.KeyDown))
	m = press(t, m, key(tea.KeyEnter))

	live := m.cons.Screen(console.ScreenLive)
	assert.Equal(t, "450", live.Strike)
	require.NotNil(t, live.Result)
	assert.Equal(t, 9.5, live.Result.Valuation.MarketPrice)
	assert.False(t, live.Busy)
	assert.Contains(t, m.View(), "CHEAP")
}

func TestTickerEditAndExpiryCycle(t *testing.T) {
	gate := newGate(t, true)
	_, err := gate.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	m := newModel(t, &stubEngine{}, gate)
	m = drain(t, m, m.Init())

	m = press(t, m, key(tea.KeyPgDown))
	require.Equal(t, console.ScreenGreeks, console.ScreenKinds[m.active])
	greeks := m.cons.Screen(console.ScreenGreeks)
	assert.Nil(t, greeks.Snapshot)

	m = typeText(t, m, "a")
	assert.Nil(t, greeks.Snapshot, "single character is not resolved")
	m = typeText(t, m, "apl")
	assert.Equal(t, "AAPL", greeks.Ticker)
	require.NotNil(t, greeks.Snapshot)
	assert.Equal(t, "2025-06-20", greeks.Expiry)

	m = press(t, m, key(tea.KeyTab))
	m = press(t, m, key(tea.KeyTab))
	require.Equal(t, fieldExpiry, m.focused())
	m = press(t, m, key(tea.KeyRight))
	assert.Equal(t, "2025-07-18", greeks.Expiry)
	m = press(t, m, key(tea.KeyRight))
	assert.Equal(t, "2025-07-18", greeks.Expiry, "cycling stops at the last expiry")
	assert.Nil(t, greeks.Chain, "only the live screen fetches chains")
}

func TestRunFailureShowsBannerUntilDismissed(t *testing.T) {
	gate := newGate(t, true)
	_, err := gate.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	m := newModel(t, &stubEngine{failRun: apperrors.NewServerFailure(500, "Ticker not supported")}, gate)
	m = drain(t, m, m.Init())

	m = press(t, m, key(tea.KeyEnter))
	live := m.cons.Screen(console.ScreenLive)
	require.Error(t, live.Err)
	assert.True(t, strings.Contains(m.View(), "Ticker not supported"))

	m = press(t, m, key(tea.KeyEsc))
	assert.Nil(t, live.Err)
	assert.NotContains(t, m.View(), "Ticker not supported")
}

func TestRunWithMissingInputs(t *testing.T) {
	gate := newGate(t, true)
	_, err := gate.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	m := newModel(t, &stubEngine{}, gate)
	m = drain(t, m, m.Init())

	m = press(t, m, key(tea.KeyPgUp))
	require.Equal(t, console.ScreenHeatmap, console.ScreenKinds[m.active])
	m = press(t, m, key(tea.KeyEnter))
	assert.Contains(t, m.View(), console.MissingInputsMessage)
}

func TestGlossaryOverlay(t *testing.T) {
	gate := newGate(t, true)
	_, err := gate.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	m := newModel(t, &stubEngine{}, gate)
	m = drain(t, m, m.Init())

	m = press(t, m, key(tea.KeyCtrlG))
	require.True(t, m.glossaryOpen)
	assert.Contains(t, m.View(), "Financial Dictionary")
	assert.Contains(t, m.View(), "Vega")

	m = typeText(t, m, "DELTA")
	view := m.View()
	assert.Contains(t, view, "How much an option price changes")
	assert.NotContains(t, view, "Sensitivity to changes in Volatility.")

	m = press(t, m, key(tea.KeyEsc))
	assert.False(t, m.glossaryOpen)
	assert.Equal(t, "SPY", m.cons.Screen(console.ScreenLive).Ticker, "typing in the glossary leaves the screen alone")
}
