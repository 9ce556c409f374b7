package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/kk-code-lab/pluck/internal/config"
	"github.com/kk-code-lab/pluck/internal/launch"
	searchpkg "github.com/kk-code-lab/pluck/internal/search"
	statepkg "github.com/kk-code-lab/pluck/internal/state"
	inputui "github.com/kk-code-lab/pluck/internal/ui/input"
	renderui "github.com/kk-code-lab/pluck/internal/ui/render"
)

// Searcher produces the rows for a query.
type Searcher interface {
	Search(ctx context.Context, query string) searchpkg.ResultSet
}

// Dependencies are the collaborators an Application drives.
type Dependencies struct {
	Screen    tcell.Screen
	Searcher  Searcher
	Launcher  launch.Launcher
	Logger    zerolog.Logger
	Placement renderui.Placement
	Root      string
	// StartupError is shown in the footer until something replaces it.
	StartupError error
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action

	searcher Searcher
	launcher launch.Launcher
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	searchMu     sync.Mutex
	searchCancel context.CancelFunc
	workers      sync.WaitGroup

	lastClickRow  int
	lastClickTime time.Time

	// suspended is set between Ctrl-Z and the SIGCONT that resumes the screen.
	suspended bool
}

// NewApplication wires the real finder, launcher and terminal from cfg.
func NewApplication(cfg config.Config, logger zerolog.Logger) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}

	finder := searchpkg.NewCommandFinder(cfg.Root, cfg.FdCommand, cfg.FzfCommand)
	controller := searchpkg.NewController(finder,
		searchpkg.WithLogger(logger),
		searchpkg.WithCache(cfg.CacheSize),
	)

	startupErr := finder.CheckTools(nil)
	if startupErr != nil {
		logger.Warn().Err(startupErr).Msg("search tools missing")
	}

	return New(Dependencies{
		Screen:       screen,
		Searcher:     controller,
		Launcher:     launch.NewDesktopLauncher(logger),
		Logger:       logger,
		Placement:    renderui.Placement{WidthFraction: cfg.WidthFraction, TopFraction: cfg.TopFraction},
		Root:         cfg.Root,
		StartupError: startupErr,
	})
}

// New initialises the screen and assembles the application.
func New(deps Dependencies) (*Application, error) {
	if deps.Screen == nil {
		return nil, fmt.Errorf("no screen")
	}
	if err := deps.Screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	deps.Screen.EnableMouse()
	deps.Screen.EnablePaste()

	ctx, cancel := context.WithCancel(context.Background())

	state := statepkg.NewAppState(deps.Root)
	state.ScreenWidth, state.ScreenHeight = deps.Screen.Size()
	state.LastError = deps.StartupError

	actionCh := make(chan statepkg.Action, 64)
	renderer := renderui.NewRenderer(deps.Screen)
	if deps.Placement != (renderui.Placement{}) {
		renderer.SetPlacement(deps.Placement)
	}

	app := &Application{
		screen:   deps.Screen,
		state:    state,
		renderer: renderer,
		input:    inputui.NewInputHandler(actionCh),
		actionCh: actionCh,
		searcher: deps.Searcher,
		launcher: deps.Launcher,
		logger:   deps.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	app.reducer = statepkg.NewStateReducer(app)
	return app, nil
}

// State exposes the current state; it must only be read from the loop
// goroutine or after Run returns.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// Close stops background work and releases the terminal.
func (app *Application) Close() error {
	app.cancel()
	app.workers.Wait()
	app.screen.Fini()
	return nil
}
