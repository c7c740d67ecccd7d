package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/filters"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/gaps"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/help"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/intensity"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/records"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/views/trend"
	"github.com/custodia-labs/regdash/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	menuView      *menu.View
	recordsView   *records.View
	intensityView *intensity.View
	gapsView      *gaps.View
	trendView     *trend.View
	filtersView   *filters.View
	helpView      *help.View

	// source is the path passed to the first load; empty uses the configured path.
	source string

	// filter is the current sector/domain selection.
	filter domain.Filter

	info      *domain.SnapshotInfo
	dashboard *domain.Dashboard

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		statusbar:     status.NewBar(s, km),
		menuView:      menu.NewView(s),
		recordsView:   records.NewView(s),
		intensityView: intensity.NewView(s),
		gapsView:      gaps.NewView(s),
		trendView:     trend.NewView(s),
		filtersView:   filters.NewView(s),
		helpView:      help.NewView(s, km),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithSource sets the table to load on start.
func (a *App) WithSource(path string) *App {
	a.source = path
	return a
}

// WithFilter sets the initial sector/domain selection.
func (a *App) WithFilter(f domain.Filter) *App {
	a.filter = f
	a.filtersView.SetFilter(f)
	return a
}

// Program returns a bubbletea program for the app bound to its context.
func (a *App) Program(opts ...tea.ProgramOption) *tea.Program {
	base := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(a.ctx)}
	return tea.NewProgram(a, append(base, opts...)...)
}

// Init implements tea.Model.
// It loads the source table when the program starts.
func (a *App) Init() tea.Cmd {
	a.statusbar.SetState(status.StateLoading)
	a.statusbar.SetMessage("loading")
	return tea.Batch(
		tea.SetWindowTitle("regdash"),
		a.loadDataset(),
	)
}

func (a *App) loadDataset() tea.Cmd {
	ctx, svc, path := a.ctx, a.ports.Dataset, a.source
	return func() tea.Msg {
		info, err := svc.Load(ctx, path)
		return messages.DatasetLoaded{Info: info, Err: err}
	}
}

func (a *App) reloadDataset() tea.Cmd {
	if a.info == nil {
		return a.loadDataset()
	}
	a.statusbar.SetState(status.StateLoading)
	a.statusbar.SetMessage("reloading")
	ctx, svc := a.ctx, a.ports.Dataset
	return func() tea.Msg {
		info, err := svc.Reload(ctx)
		return messages.DatasetLoaded{Info: info, Err: err}
	}
}

func (a *App) loadOptions() tea.Cmd {
	ctx, svc := a.ctx, a.ports.Dataset
	return func() tea.Msg {
		opts, err := svc.Options(ctx)
		return messages.OptionsLoaded{Options: opts, Err: err}
	}
}

func (a *App) loadDashboard() tea.Cmd {
	ctx, svc, filter := a.ctx, a.ports.Dataset, a.filter
	return func() tea.Msg {
		dash, err := svc.Dashboard(ctx, filter)
		return messages.DashboardLoaded{Filter: filter, Dashboard: dash, Err: err}
	}
}

func (a *App) export(kind messages.ExportKind) tea.Cmd {
	if a.ports.Export == nil {
		return func() tea.Msg {
			return messages.ExportCompleted{Kind: kind, Err: ErrMissingExportService}
		}
	}

	ctx, svc, filter := a.ctx, a.ports.Export, a.filter
	return func() tea.Msg {
		if kind == messages.ExportWorkbook {
			err := svc.Workbook(ctx, filter, "")
			return messages.ExportCompleted{Kind: kind, Err: err}
		}
		paths, err := svc.Charts(ctx, filter, "")
		return messages.ExportCompleted{Kind: kind, Paths: paths, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewFilters {
			a.statusbar.SetState(status.StateFilter)
		} else if a.err == nil {
			a.statusbar.SetState(status.StateReady)
		}
		return a, nil

	case messages.DatasetLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.info = msg.Info
		a.menuView.SetInfo(msg.Info)
		return a, tea.Batch(a.loadOptions(), a.loadDashboard())

	case messages.OptionsLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.filtersView.SetOptions(msg.Options)
		a.filtersView.SetFilter(a.filter)
		return a, nil

	case messages.DashboardLoaded:
		// A newer filter is already being computed.
		if !msg.Filter.Equal(a.filter) {
			return a, nil
		}
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.setDashboard(msg.Dashboard)
		return a, nil

	case messages.FilterChanged:
		a.filter = msg.Filter
		return a, a.loadDashboard()

	case messages.ReloadRequested:
		return a, a.reloadDataset()

	case messages.SourceChanged:
		a.statusbar.SetMessage("source changed")
		return a, a.reloadDataset()

	case messages.WatchFailed:
		a.setError(fmt.Errorf("watch: %w", msg.Err))
		return a, nil

	case messages.ExportRequested:
		a.statusbar.SetState(status.StateLoading)
		a.statusbar.SetMessage("exporting")
		return a, a.export(msg.Kind)

	case messages.ExportCompleted:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.statusbar.SetState(status.StateReady)
		if msg.Kind == messages.ExportWorkbook {
			a.statusbar.SetMessage("workbook written")
		} else {
			a.statusbar.SetMessage(fmt.Sprintf("%d chart(s) written", len(msg.Paths)))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// The query line takes every key until it is closed.
	if a.currentView == messages.ViewRecords && a.recordsView.Editing() {
		return a, a.forward(msg)
	}

	switch {
	case keymap.Matches(msg.String(), a.keymap.Back):
		if a.currentView != messages.ViewMenu {
			return a.Update(messages.ViewChanged{View: messages.ViewMenu})
		}
		return a, nil

	case keymap.Matches(msg.String(), a.keymap.Help) && a.currentView != messages.ViewHelp:
		return a.Update(messages.ViewChanged{View: messages.ViewHelp})

	case keymap.Matches(msg.String(), a.keymap.Reload):
		return a, a.reloadDataset()
	}

	return a, a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRecords:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewIntensity:
		a.intensityView, cmd = a.intensityView.Update(msg)
	case messages.ViewGaps:
		a.gapsView, cmd = a.gapsView.Update(msg)
	case messages.ViewTrend:
		a.trendView, cmd = a.trendView.Update(msg)
	case messages.ViewFilters:
		a.filtersView, cmd = a.filtersView.Update(msg)
	case messages.ViewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return cmd
}

func (a *App) setDashboard(d *domain.Dashboard) {
	a.dashboard = d
	var rows []domain.Record
	if d != nil {
		rows = d.Records
	}
	a.recordsView.SetRecords(rows)
	a.intensityView.SetDashboard(d)
	a.gapsView.SetDashboard(d)
	a.trendView.SetDashboard(d)

	total := 0
	if a.info != nil {
		total = a.info.RecordCount
	}
	a.statusbar.SetCounts(len(rows), total)
	if a.currentView == messages.ViewFilters {
		a.statusbar.SetState(status.StateFilter)
	} else {
		a.statusbar.SetState(status.StateReady)
	}
	a.statusbar.SetMessage("")
}

func (a *App) setError(err error) {
	a.err = err
	a.statusbar.SetState(status.StateError)
	a.statusbar.SetMessage(err.Error())
}

// View implements tea.Model.
// It renders the current view above the status bar.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewRecords:
		body = a.recordsView.View()
	case messages.ViewIntensity:
		body = a.intensityView.View()
	case messages.ViewGaps:
		body = a.gapsView.View()
	case messages.ViewTrend:
		body = a.trendView.View()
	case messages.ViewFilters:
		body = a.filtersView.View()
	case messages.ViewHelp:
		body = a.helpView.View()
	default:
		body = a.menuView.View()
	}

	body = lipgloss.NewStyle().Height(max(a.height-1, 1)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusbar.View())
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Filter returns the current sector/domain selection.
func (a *App) Filter() domain.Filter {
	return a.filter
}

// Dashboard returns the last computed dashboard.
func (a *App) Dashboard() *domain.Dashboard {
	return a.dashboard
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
// One line is kept for the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	viewHeight := max(height-1, 1)
	a.menuView.SetDimensions(width, viewHeight)
	a.recordsView.SetDimensions(width, viewHeight)
	a.intensityView.SetDimensions(width, viewHeight)
	a.gapsView.SetDimensions(width, viewHeight)
	a.trendView.SetDimensions(width, viewHeight)
	a.filtersView.SetDimensions(width, viewHeight)
	a.helpView.SetDimensions(width, viewHeight)
	a.statusbar.SetWidth(width)
}
