package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sentorder/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sentorder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sentorder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sentorder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// chromeHeight is the number of lines used by the title and status bar.
const chromeHeight = 2

// App shows a text next to its reordered version.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	text string
	opts domain.ReorderOptions

	// runs counts completed reorders and offsets the seed on rerun.
	runs uint64

	styles   *styles.Styles
	keymap   *keymap.KeyMap
	spinner  spinner.Model
	viewport viewport.Model
	status   *status.Bar

	phase      messages.Phase
	result     *domain.ReorderResult
	report     *domain.ScoreReport
	err        error
	showScores bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI that reorders text with opts.
func NewApp(ports *Ports, text string, opts domain.ReorderOptions) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("creating app: %w", ErrEmptyText)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		text:     text,
		opts:     opts,
		styles:   s,
		keymap:   km,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Title)),
		viewport: viewport.New(80, 20),
		status:   status.NewBar(s, km),
		phase:    messages.PhaseRunning,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sentorder"),
		a.spinner.Tick,
		a.reorderCmd(a.opts),
	)
}

// reorderCmd runs the reorder and scores the reordered text.
func (a *App) reorderCmd(opts domain.ReorderOptions) tea.Cmd {
	return func() tea.Msg {
		result, err := a.ports.Reorder.Reorder(a.ctx, a.text, opts)
		if err != nil {
			return messages.ReorderCompleted{Err: err}
		}
		if len(result.Reordered) < 2 {
			return messages.ReorderCompleted{Result: result}
		}

		doc := &domain.Document{Sentences: result.Reordered}
		report, err := a.ports.Reorder.ScoreDocument(a.ctx, doc, domain.ScoreOptions{})
		if err != nil {
			logger.Warn("score reordered text: %v", err)
		}
		return messages.ReorderCompleted{Result: result, Report: report}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-chromeHeight, 1)
		a.status.SetWidth(msg.Width)
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		if a.phase != messages.PhaseRunning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refresh()
		return a, cmd

	case messages.ReorderRequested:
		a.phase = messages.PhaseRunning
		a.err = nil
		a.status.SetState(status.StateRunning)
		a.refresh()
		return a, tea.Batch(a.spinner.Tick, a.reorderCmd(msg.Options))

	case messages.ReorderCompleted:
		a.handleCompleted(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleCompleted(msg messages.ReorderCompleted) {
	a.runs++
	if msg.Err != nil {
		a.phase = messages.PhaseError
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		a.refresh()
		return
	}

	a.phase = messages.PhaseResult
	a.result = msg.Result
	a.report = msg.Report
	a.status.SetState(status.StateDone)
	a.status.SetMessage(fmt.Sprintf("%s: %.4f -> %.4f (%d evaluations)",
		msg.Result.Strategy, msg.Result.OriginalScore, msg.Result.ReorderedScore, msg.Result.Evaluations))
	a.viewport.GotoTop()
	a.refresh()
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.status.ToggleHelp()
		return a, nil

	case key.Matches(msg, a.keymap.Rerun):
		if a.phase == messages.PhaseRunning {
			return a, nil
		}
		opts := a.nextOptions()
		return a, func() tea.Msg { return messages.ReorderRequested{Options: opts} }

	case key.Matches(msg, a.keymap.Scores):
		a.showScores = !a.showScores
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// nextOptions returns the options for a rerun. A fixed seed is advanced
// so each rerun explores a different ordering; a zero seed stays random.
func (a *App) nextOptions() domain.ReorderOptions {
	opts := a.opts
	if opts.Seed != 0 {
		opts.Seed += a.runs
	}
	return opts
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("sentorder")
	return lipgloss.JoinVertical(lipgloss.Left, title, a.viewport.View(), a.status.View())
}

// refresh re-renders the viewport content for the current phase.
func (a *App) refresh() {
	a.viewport.SetContent(a.content())
}

func (a *App) content() string {
	switch a.phase {
	case messages.PhaseRunning:
		return fmt.Sprintf("%s Reordering %d characters...", a.spinner.View(), len(a.text))
	case messages.PhaseError:
		return a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err))
	}
	if a.result == nil {
		return ""
	}

	paneWidth := max((a.width-4)/2, 20)
	original := a.renderPane("Original", a.result.Original, nil, paneWidth)
	reordered := a.renderPane("Reordered", a.result.Reordered, a.result.Original, paneWidth)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, original, reordered))
	b.WriteString("\n")
	b.WriteString(a.renderSummary())
	if a.showScores {
		b.WriteString("\n\n")
		b.WriteString(a.renderScores())
	}
	return b.String()
}

// renderPane lists sentences with their original position. When against is
// set, sentences not at their original position are highlighted.
func (a *App) renderPane(title string, sentences, against []domain.Sentence, width int) string {
	lines := []string{a.styles.Subtitle.Render(title), ""}
	for i, s := range sentences {
		number := a.styles.Muted.Render(fmt.Sprintf("%2d.", s.Index+1))
		text := a.styles.Normal.Render(s.Text)
		if against != nil && i < len(against) && against[i].Index != s.Index {
			text = a.styles.Moved.Render(s.Text)
		}
		lines = append(lines, number+" "+text)
	}
	return a.styles.Pane.Width(width).Render(strings.Join(lines, "\n"))
}

func (a *App) renderSummary() string {
	r := a.result
	return fmt.Sprintf("%s %.4f  %s %.4f  %s",
		a.styles.Muted.Render("original"), r.OriginalScore,
		a.styles.Muted.Render("reordered"), r.ReorderedScore,
		a.styles.Delta(r.Improvement()))
}

func (a *App) renderScores() string {
	if a.report == nil {
		return a.styles.Muted.Render("No score breakdown available.")
	}

	lines := []string{a.styles.Subtitle.Render("Scores")}
	values := a.report.Breakdown.Values()
	for i, name := range domain.ScoreNames {
		lines = append(lines, fmt.Sprintf("  %-10s %.4f", name, values[i]))
	}
	lines = append(lines, fmt.Sprintf("  %-10s %.4f", "final", a.report.Final))
	if a.report.HasAllPairs {
		lines = append(lines, fmt.Sprintf("  %-10s %.4f ± %.4f", "all pairs", a.report.LSAAllPairsMean, a.report.LSAAllPairsStd))
	}
	lines = append(lines, fmt.Sprintf("  %-10s %.4f", "givenness", a.report.Lexical.Text))
	return strings.Join(lines, "\n")
}

// Phase returns the current phase.
func (a *App) Phase() messages.Phase {
	return a.phase
}

// Result returns the last successful reorder result.
func (a *App) Result() *domain.ReorderResult {
	return a.result
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}
