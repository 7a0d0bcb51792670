// Package tui is the interactive console: a login gate in front of the
// six analytics screens. Engine calls run as tea.Cmds and their outcomes
// come back through Update, so screen state is only touched on the
// program goroutine.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"drawdown-console/internal/console"
	"drawdown-console/internal/engine"
	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
	"drawdown-console/internal/session"
)

type mode int

const (
	modeLogin mode = iota
	modeConsole
)

type field int

const (
	fieldTicker field = iota
	fieldStrike
	fieldExpiry
	fieldTargetPrice
	fieldTargetVol
	fieldDaysAhead
	fieldChain
)

func (f field) label() string {
	switch f {
	case fieldTicker:
		return "Ticker"
	case fieldStrike:
		return "Strike"
	case fieldExpiry:
		return "Expiry"
	case fieldTargetPrice:
		return "Target Price"
	case fieldTargetVol:
		return "Target Vol (%)"
	case fieldDaysAhead:
		return "Days Ahead"
	case fieldChain:
		return "Chain"
	}
	return ""
}

// fieldsFor returns the focusable fields of a screen in tab order.
func fieldsFor(kind console.ScreenKind) []field {
	fields := []field{fieldTicker, fieldStrike, fieldExpiry}
	switch kind {
	case console.ScreenScenario:
		fields = append(fields, fieldTargetPrice, fieldTargetVol, fieldDaysAhead)
	case console.ScreenLive:
		fields = append(fields, fieldChain)
	}
	return fields
}

// eventMsg carries an engine outcome back to the program goroutine.
type eventMsg struct {
	event console.Event
}

// Model is the bubbletea model of the console.
type Model struct {
	ctx    context.Context
	cons   *console.Console
	eng    engine.Engine
	gate   *session.Gate
	logger zerolog.Logger

	mode    mode
	started *bool
	active  int
	focus   int
	inputs  map[field]*textinput.Model

	chainCursor int

	account  textinput.Model
	password textinput.Model
	loginErr string

	glossaryOpen   bool
	glossaryFilter textinput.Model

	width  int
	height int
}

// New creates the console model. The login gate is shown first unless
// the gate already has an active user.
func New(ctx context.Context, cons *console.Console, eng engine.Engine, gate *session.Gate, logger zerolog.Logger) Model {
	m := Model{
		ctx:     ctx,
		cons:    cons,
		eng:     eng,
		gate:    gate,
		logger:  logger.With().Str("component", "tui").Logger(),
		inputs:  make(map[field]*textinput.Model),
		started: new(bool),
	}
	for _, f := range []field{fieldTicker, fieldStrike, fieldExpiry, fieldTargetPrice, fieldTargetVol, fieldDaysAhead} {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 24
		in.Width = 14
		m.inputs[f] = &in
	}
	m.inputs[fieldExpiry].Placeholder = "←/→ to pick"

	m.account = textinput.New()
	m.account.Placeholder = "account id"
	m.account.Prompt = "Account:  "
	m.password = textinput.New()
	m.password.Placeholder = "password"
	m.password.Prompt = "Password: "
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'

	m.glossaryFilter = textinput.New()
	m.glossaryFilter.Placeholder = "filter terms"
	m.glossaryFilter.Prompt = "Search: "

	if gate.IsActive() {
		m.mode = modeConsole
	} else {
		m.account.Focus()
	}
	m.loadInputs()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, cons *console.Console, eng engine.Engine, gate *session.Gate, logger zerolog.Logger) error {
	p := tea.NewProgram(New(ctx, cons, eng, gate, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.mode == modeConsole {
		return m.start()
	}
	return textinput.Blink
}

// start resolves every screen's startup ticker. It runs once per process.
func (m *Model) start() tea.Cmd {
	if *m.started {
		return nil
	}
	*m.started = true
	var cmds []tea.Cmd
	for _, req := range m.cons.Start() {
		cmds = append(cmds, m.dispatch(req))
	}
	return tea.Batch(cmds...)
}

// dispatch executes req off the program goroutine.
func (m *Model) dispatch(req console.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	ctx, eng := m.ctx, m.eng
	return func() tea.Msg {
		return eventMsg{event: req.Do(ctx, eng)}
	}
}

func (m *Model) screen() *console.Screen {
	return m.cons.Screen(console.ScreenKinds[m.active])
}

func (m *Model) fields() []field {
	return fieldsFor(console.ScreenKinds[m.active])
}

func (m *Model) focused() field {
	return m.fields()[m.focus]
}

// loadInputs copies the active screen's values into the text inputs.
func (m *Model) loadInputs() {
	s := m.screen()
	setValue(m.inputs[fieldTicker], s.Ticker)
	setValue(m.inputs[fieldStrike], s.Strike)
	setValue(m.inputs[fieldExpiry], s.Expiry)
	setValue(m.inputs[fieldTargetPrice], s.TargetPrice)
	setValue(m.inputs[fieldTargetVol], s.TargetVol)
	setValue(m.inputs[fieldDaysAhead], s.DaysAhead)
	m.focusField()
}

// setValue leaves the cursor alone unless the text actually changes.
func setValue(in *textinput.Model, v string) {
	if in.Value() == v {
		return
	}
	in.SetValue(v)
	in.CursorEnd()
}

func (m *Model) focusField() {
	for _, in := range m.inputs {
		in.Blur()
	}
	if in, ok := m.inputs[m.focused()]; ok && m.focused() != fieldExpiry {
		in.Focus()
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case eventMsg:
		next, applied := m.cons.Apply(msg.event)
		if applied && msg.event.Target() == console.ScreenKinds[m.active] {
			m.loadInputs()
		}
		return m, m.dispatch(next)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode == modeLogin {
			return m.updateLogin(msg)
		}
		if m.glossaryOpen {
			return m.updateGlossary(msg)
		}
		return m.updateConsole(msg)
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if m.account.Focused() {
			m.account.Blur()
			m.password.Focus()
		} else {
			m.password.Blur()
			m.account.Focus()
		}
		return m, nil
	case tea.KeyEnter:
		_, err := m.gate.Login(m.ctx, m.account.Value(), m.password.Value())
		m.password.SetValue("")
		if err != nil {
			m.loginErr = loginMessage(err)
			return m, nil
		}
		m.loginErr = ""
		m.mode = modeConsole
		m.loadInputs()
		return m, m.start()
	}

	var cmd tea.Cmd
	if m.account.Focused() {
		m.account, cmd = m.account.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func loginMessage(err error) string {
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		return session.InvalidCredentialsMessage
	}
	return err.Error()
}

func (m Model) updateConsole(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.screen()

	switch msg.Type {
	case tea.KeyCtrlL:
		if err := m.gate.Logout(m.ctx); err != nil {
			s.Err = err
			return m, nil
		}
		m.mode = modeLogin
		m.account.SetValue("")
		m.password.Blur()
		m.account.Focus()
		return m, nil
	case tea.KeyCtrlG:
		m.glossaryOpen = true
		m.glossaryFilter.SetValue("")
		m.glossaryFilter.Focus()
		return m, textinput.Blink
	case tea.KeyPgDown, tea.KeyCtrlRight:
		m.switchScreen(1)
		return m, nil
	case tea.KeyPgUp, tea.KeyCtrlLeft:
		m.switchScreen(-1)
		return m, nil
	case tea.KeyTab:
		m.focus = (m.focus + 1) % len(m.fields())
		m.focusField()
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus + len(m.fields()) - 1) % len(m.fields())
		m.focusField()
		return m, nil
	case tea.KeyEsc:
		s.DismissError()
		return m, nil
	case tea.KeyEnter:
		if m.focused() == fieldChain {
			return m, m.selectContract()
		}
		req, _ := s.Run()
		return m, m.dispatch(req)
	}

	switch m.focused() {
	case fieldExpiry:
		return m, m.cycleExpiry(msg)
	case fieldChain:
		m.moveChainCursor(msg)
		return m, nil
	}

	f := m.focused()
	in := m.inputs[f]
	before := in.Value()
	updated, cmd := in.Update(msg)
	*in = updated
	if in.Value() == before {
		return m, cmd
	}

	var req console.Request
	switch f {
	case fieldTicker:
		req = s.SetTicker(in.Value())
		m.chainCursor = 0
	case fieldStrike:
		s.SetStrike(in.Value())
	case fieldTargetPrice, fieldTargetVol, fieldDaysAhead:
		s.SetScenario(m.inputs[fieldTargetPrice].Value(), m.inputs[fieldTargetVol].Value(), m.inputs[fieldDaysAhead].Value())
	}
	m.loadInputs()
	return m, tea.Batch(cmd, m.dispatch(req))
}

func (m Model) updateGlossary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlG:
		m.glossaryOpen = false
		m.glossaryFilter.Blur()
		m.focusField()
		return m, nil
	}
	var cmd tea.Cmd
	m.glossaryFilter, cmd = m.glossaryFilter.Update(msg)
	return m, cmd
}

func (m *Model) switchScreen(delta int) {
	n := len(console.ScreenKinds)
	m.active = (m.active + delta + n) % n
	m.focus = 0
	m.chainCursor = 0
	m.loadInputs()
}

// cycleExpiry steps through the resolved expirations with the arrow keys.
func (m *Model) cycleExpiry(msg tea.KeyMsg) tea.Cmd {
	s := m.screen()
	if s.Snapshot == nil || len(s.Snapshot.Expirations) == 0 {
		return nil
	}
	exps := s.Snapshot.Expirations
	idx := -1
	for i, e := range exps {
		if e == s.Expiry {
			idx = i
		}
	}
	switch msg.Type {
	case tea.KeyRight, tea.KeyDown:
		idx++
	case tea.KeyLeft, tea.KeyUp:
		idx--
	default:
		return nil
	}
	if idx < 0 || idx >= len(exps) {
		return nil
	}
	req := s.SetExpiry(exps[idx])
	m.chainCursor = 0
	m.loadInputs()
	return m.dispatch(req)
}

func (m *Model) moveChainCursor(msg tea.KeyMsg) {
	rows := m.screen().Chain.Side(models.Call)
	switch msg.Type {
	case tea.KeyDown:
		if m.chainCursor < len(rows)-1 {
			m.chainCursor++
		}
	case tea.KeyUp:
		if m.chainCursor > 0 {
			m.chainCursor--
		}
	}
}

func (m *Model) selectContract() tea.Cmd {
	s := m.screen()
	rows := s.Chain.Side(models.Call)
	if m.chainCursor >= len(rows) {
		return nil
	}
	req, _ := s.SelectContract(rows[m.chainCursor])
	m.loadInputs()
	return m.dispatch(req)
}
