package ui

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/logger"
	"github.com/Mohsinsiddi/piggybank/internal/query"
	"github.com/Mohsinsiddi/piggybank/internal/theme"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Deps are the collaborators the app renders on top of.
type Deps struct {
	Wallet *wallet.Client
	Query  *query.Client
	Chains *chain.Registry
	Log    *logger.Logger
	// Transports picks the RPC endpoint for balance reads. Nil uses each
	// chain's first RPC.
	Transports TransportSource

	// Theme forces the initial theme. Empty detects it with PrefersDark.
	Theme       theme.Theme
	PrefersDark func() bool

	// Now is the clock used for the savings series.
	Now func() time.Time
	// Static skips entrance animations, for single-frame rendering.
	Static bool
}

// TransportSource hands out a JSON-RPC client for a chain. Forget is called
// after a request through that client failed, so the next one may pick
// another endpoint.
type TransportSource interface {
	Transport(ctx context.Context, ch *chain.Chain) (*chain.EVMClient, error)
	Forget(chainName string)
}

type firstRPC struct{}

func (firstRPC) Forget(string) {}

func (firstRPC) Transport(_ context.Context, ch *chain.Chain) (*chain.EVMClient, error) {
	if tr := ch.Transport(); tr != nil {
		return tr, nil
	}
	return nil, errNoTransport
}

// App wraps Home in a theme provider bound to the document root.
type App struct {
	doc      *Document
	provider *theme.Provider
	home     Home
	cancel   context.CancelFunc
}

// NewApp mounts the app. The returned app must be closed.
func NewApp(ctx context.Context, deps Deps) App {
	ctx, cancel := context.WithCancel(ctx)

	initial, err := theme.Parse(deps.Theme.String())
	if err != nil {
		initial = theme.Detect(deps.PrefersDark)
	}

	doc := NewDocument()
	provider := theme.NewProvider(initial, doc)
	ctx = theme.NewContext(ctx, provider)

	deps.Log.WithFields(map[string]any{"theme": initial.String()}).Debug("app mounted")

	return App{
		doc:      doc,
		provider: provider,
		home:     NewHome(ctx, deps),
		cancel:   cancel,
	}
}

// Document is the root the theme attribute is written to.
func (a App) Document() *Document { return a.doc }

// Theme is the current theme.
func (a App) Theme() theme.Theme { return a.provider.Theme() }

// Close cancels in-flight work started by the app and stops its listeners.
func (a App) Close() {
	a.home.Close()
	a.cancel()
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.home, cmd = a.home.Update(msg)
	return a, cmd
}

func (a App) View() string {
	p := PaletteFromDocument(a.doc)
	view := a.home.View(p)
	if a.home.width <= 0 || a.home.height <= 0 {
		return view
	}
	return lipgloss.Place(a.home.width, a.home.height, lipgloss.Left, lipgloss.Top, view,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(p.Background)))
}

// Render returns a single settled frame of width columns.
func (a App) Render(width int) string {
	m, _ := a.Update(tea.WindowSizeMsg{Width: width})
	return m.(App).home.View(PaletteFromDocument(a.doc))
}
