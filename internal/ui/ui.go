package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/p2c/internal/prompt"
	"github.com/desertthunder/p2c/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	DetailView
	ConfirmView
	InputView
)

const (
	defaultWidth  = 80
	defaultHeight = 20
)

// Model represents the state of a single prompt.
type Model struct {
	ctx       context.Context
	view      ViewState
	menu      prompt.Menu
	question  string
	width     int
	height    int
	list      list.Model
	detail    viewport.Model
	heading   string
	input     textinput.Model
	chosen    int
	answer    bool
	text      string
	done      bool
	cancelled bool
	help      help.Model
	keys      keyMap
}

func newModel(ctx context.Context, view ViewState) *Model {
	return &Model{
		ctx:    ctx,
		view:   view,
		width:  defaultWidth,
		height: defaultHeight,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// NewMenuModel creates a model that lets the user pick one of m's options.
func NewMenuModel(ctx context.Context, m prompt.Menu) *Model {
	model := newModel(ctx, MenuView)
	model.menu = m

	l := list.New(optionItems(m.Options), list.NewDefaultDelegate(), defaultWidth-4, defaultHeight-6)
	l.Title = strings.TrimSpace(m.Title)
	if l.Title == "" {
		l.Title = strings.TrimSpace(m.Prompt)
	}
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	model.list = l
	model.detail = viewport.New(defaultWidth-4, defaultHeight-6)
	return model
}

// NewConfirmModel creates a model asking a yes/no question.
func NewConfirmModel(ctx context.Context, question string) *Model {
	model := newModel(ctx, ConfirmView)
	model.question = question
	return model
}

// NewInputModel creates a model reading a line of text.
func NewInputModel(ctx context.Context, question string) *Model {
	model := newModel(ctx, InputView)
	model.question = strings.TrimSpace(question)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	model.input = ti
	return model
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	if m.view == InputView {
		return textinput.Blink
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == MenuView || m.view == DetailView {
			m.list.SetSize(msg.Width-4, msg.Height-6)
			m.detail.Width = msg.Width - 4
			m.detail.Height = msg.Height - 6
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		}

	case detailLoadedMsg:
		m.heading = msg.detail.Heading
		m.detail.SetContent(strings.Join(msg.detail.Lines, "\n"))
		m.detail.GotoTop()
		m.view = DetailView
		return m, nil
	}

	return m, nil
}

func (m *Model) cancel() (tea.Model, tea.Cmd) {
	m.cancelled = true
	return m, tea.Quit
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.cancel()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.list.SelectedItem().(optionItem); ok {
			m.chosen = item.option.Key
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case key.Matches(msg, m.keys.inspect):
		if m.menu.Inspect == nil {
			return m, nil
		}
		if item, ok := m.list.SelectedItem().(optionItem); ok {
			return m, m.inspect(item.option.Key)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.cancel()
	case "esc", "q", "enter":
		m.view = MenuView
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.answer, m.done = true, true
		return m, tea.Quit
	case key.Matches(msg, m.keys.no):
		m.answer, m.done = false, true
		return m, tea.Quit
	case key.Matches(msg, m.keys.quit):
		return m.cancel()
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m.cancel()
	case "enter":
		m.text = m.input.Value()
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) inspect(key int) tea.Cmd {
	inspect := m.menu.Inspect
	ctx := m.ctx
	return func() tea.Msg {
		return detailLoadedMsg{key: key, detail: inspect(ctx, key)}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	switch m.view {
	case MenuView:
		return m.renderMenu()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case InputView:
		return m.renderInput()
	default:
		return ""
	}
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.enter}
	if m.menu.Inspect != nil {
		helpKeys = append(helpKeys, m.keys.inspect)
	}
	helpKeys = append(helpKeys, m.keys.quit)
	return fmt.Sprintf("%s\n\n%s", m.list.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	title := styles.title.Render(m.heading)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.detail.View(), helpView)
}

func (m *Model) renderConfirm() string {
	question := styles.question.Render(m.question + "?")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n", question, helpView)
}

func (m *Model) renderInput() string {
	question := styles.question.Render(m.question)
	helpView := styles.help.Render("enter to submit • esc to cancel")
	return fmt.Sprintf("%s\n%s\n\n%s\n", question, m.input.View(), helpView)
}

// Selector implements [prompt.Selector] with one bubbletea program per prompt.
type Selector struct {
	in   io.Reader
	out  io.Writer
	opts []tea.ProgramOption
}

var _ prompt.Selector = (*Selector)(nil)

// NewSelector creates a Selector bound to the given terminal streams. Nil streams use the process's own.
func NewSelector(in io.Reader, out io.Writer, opts ...tea.ProgramOption) *Selector {
	return &Selector{in: in, out: out, opts: opts}
}

func (s *Selector) run(ctx context.Context, model *Model, extra ...tea.ProgramOption) (*Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if s.in != nil {
		opts = append(opts, tea.WithInput(s.in))
	}
	if s.out != nil {
		opts = append(opts, tea.WithOutput(s.out))
	}
	opts = append(opts, extra...)
	opts = append(opts, s.opts...)

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, shared.ErrCancelled
		}
		return nil, fmt.Errorf("tui: %w", err)
	}

	result, ok := final.(*Model)
	if !ok || result.cancelled || !result.done {
		return nil, shared.ErrCancelled
	}
	return result, nil
}

// Select shows the menu full screen and returns the chosen key.
func (s *Selector) Select(ctx context.Context, m prompt.Menu) (int, error) {
	if len(m.Options) == 0 {
		return 0, shared.ErrCancelled
	}
	result, err := s.run(ctx, NewMenuModel(ctx, m), tea.WithAltScreen())
	if err != nil {
		return 0, err
	}
	return result.chosen, nil
}

// Confirm asks a yes/no question.
func (s *Selector) Confirm(ctx context.Context, question string) (bool, error) {
	result, err := s.run(ctx, NewConfirmModel(ctx, question))
	if err != nil {
		return false, err
	}
	return result.answer, nil
}

// Input reads a line of text.
func (s *Selector) Input(ctx context.Context, question string) (string, error) {
	result, err := s.run(ctx, NewInputModel(ctx, question))
	if err != nil {
		return "", err
	}
	return result.text, nil
}
