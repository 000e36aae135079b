package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/Mohsinsiddi/piggybank/internal/query"
	"github.com/Mohsinsiddi/piggybank/internal/savings"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 80
	// twoColumnWidth is the narrowest terminal that fits wallet and chart
	// side by side.
	twoColumnWidth = 120
	// walletColumnWidth fits a full connected address on one line.
	walletColumnWidth = 58
)

var errNoTransport = errors.New("no RPC endpoint configured")

type balanceMsg struct {
	address string
	balance *chain.Balance
	err     error
}

// Home is the main screen: navbar, wallet panel and savings chart.
type Home struct {
	ctx    context.Context
	deps   Deps
	navbar Navbar
	panel  WalletPanel
	data   []savings.Point
	cursor int
	enter  Entrance

	showHelp bool
	width    int
	height   int

	updates     chan struct{}
	unsubscribe func()
}

// NewHome builds the home screen. ctx must carry a theme provider. The
// savings series is generated here, once.
func NewHome(ctx context.Context, deps Deps) Home {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	if deps.Transports == nil {
		deps.Transports = firstRPC{}
	}

	navEnter, enter := NewEntrance(navbarEntrance), NewEntrance(containerEntrance)
	if deps.Static {
		navEnter, enter = SettledEntrance(), SettledEntrance()
	}

	// Coalesce notifications; the listener always reads the latest snapshot.
	updates := make(chan struct{}, 1)
	unsubscribe := deps.Wallet.Subscribe(func(wallet.State) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	data := savings.Mock(now())
	return Home{
		ctx:         ctx,
		deps:        deps,
		navbar:      NewNavbar(ctx, navEnter),
		panel:       NewWalletPanel(deps.Wallet, deps.Chains),
		data:        data,
		cursor:      len(data) - 1,
		enter:       enter,
		updates:     updates,
		unsubscribe: unsubscribe,
	}
}

// Data returns the savings series shown by the chart.
func (h Home) Data() []savings.Point { return h.data }

// Close stops listening to the wallet client.
func (h Home) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

func (h Home) Init() tea.Cmd {
	cmds := []tea.Cmd{h.waitForWallet()}
	if !h.animationDone() {
		cmds = append(cmds, nextFrame())
	}
	return tea.Batch(cmds...)
}

func (h Home) Update(msg tea.Msg) (Home, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height

	case tea.KeyMsg:
		return h.handleKey(msg)

	case walletStateMsg:
		return h.applyWallet(wallet.State(msg))

	case walletActionMsg:
		if msg.err != nil {
			h.deps.Log.WithFields(map[string]any{"action": msg.action, "error": msg.err.Error()}).Warn("wallet action failed")
		}

	case balanceMsg:
		text := ""
		if msg.balance != nil {
			text = chain.FormatETH(msg.balance.Wei, 4)
		}
		if msg.err != nil {
			h.deps.Log.WithFields(map[string]any{"address": msg.address}).Error(msg.err, "balance fetch failed")
		}
		h.panel = h.panel.setBalance(msg.address, text, msg.err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.panel, cmd = h.panel.tick(msg)
		return h, cmd

	case frameMsg:
		h.navbar = h.navbar.step()
		h.enter = h.enter.Step()
		if !h.animationDone() {
			return h, nextFrame()
		}
	}
	return h, nil
}

func (h Home) handleKey(msg tea.KeyMsg) (Home, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return h, tea.Quit
	case "t":
		t := h.navbar.Toggle()
		h.deps.Log.WithFields(map[string]any{"theme": t.String()}).Debug("theme toggled")
	case "tab":
		h.panel = h.panel.FocusNext()
	case "shift+tab":
		h.panel = h.panel.FocusPrev()
	case "enter", " ":
		return h, h.panel.Press(h.ctx)
	case "left", "h":
		if h.cursor > 0 {
			h.cursor--
		}
	case "right", "l":
		if h.cursor < len(h.data)-1 {
			h.cursor++
		}
	case "?":
		h.showHelp = !h.showHelp
	}
	return h, nil
}

func (h Home) applyWallet(st wallet.State) (Home, tea.Cmd) {
	prev := h.panel.State()
	h.panel = h.panel.SetState(st)
	cmds := []tea.Cmd{h.waitForWallet()}

	if st.Status == wallet.StatusConnecting && prev.Status != wallet.StatusConnecting {
		cmds = append(cmds, h.panel.spinner.Tick)
	}

	switch {
	case st.IsConnected() && (!prev.IsConnected() || prev.Address != st.Address):
		if cmd := h.fetchBalance(st); cmd != nil {
			h.panel = h.panel.setBalanceLoading(st.Address)
			cmds = append(cmds, cmd)
		}
	case prev.IsConnected() && !st.IsConnected():
		if key, ok := h.balanceKey(prev); ok {
			h.deps.Query.Invalidate(key)
		}
	}
	return h, tea.Batch(cmds...)
}

// waitForWallet blocks until the wallet client reports a change and
// delivers the latest snapshot.
func (h Home) waitForWallet() tea.Cmd {
	updates, client, ctx := h.updates, h.deps.Wallet, h.ctx
	return func() tea.Msg {
		select {
		case <-updates:
			return walletStateMsg(client.State())
		case <-ctx.Done():
			return nil
		}
	}
}

func (h Home) balanceKey(st wallet.State) (query.Key, bool) {
	if h.deps.Chains == nil || h.deps.Query == nil {
		return nil, false
	}
	ch, err := h.deps.Chains.GetByChainID(st.ChainID)
	if err != nil {
		return nil, false
	}
	return query.Key{"balance", ch.Name, strings.ToLower(st.Address)}, true
}

func (h Home) fetchBalance(st wallet.State) tea.Cmd {
	key, ok := h.balanceKey(st)
	if !ok {
		return nil
	}
	ch, _ := h.deps.Chains.GetByChainID(st.ChainID)
	ctx, qc, src, addr := h.ctx, h.deps.Query, h.deps.Transports, st.Address

	return func() tea.Msg {
		bal, err := query.Fetch(ctx, qc, key, func(ctx context.Context) (*chain.Balance, error) {
			ctx, cancel := context.WithTimeout(ctx, config.RPCTimeout)
			defer cancel()
			tr, err := src.Transport(ctx, ch)
			if err != nil {
				return nil, err
			}
			bal, err := tr.GetBalance(ctx, addr)
			if err != nil {
				src.Forget(ch.Name)
			}
			return bal, err
		})
		return balanceMsg{address: addr, balance: bal, err: err}
	}
}

func (h Home) animationDone() bool {
	return h.enter.Done() && h.navbar.enter.Done()
}

func (h Home) View(p Palette) string {
	width := h.width
	if width <= 0 {
		width = defaultWidth
	}

	nav := h.navbar.View(p, width)

	cp := p.Faded(h.enter.Progress())
	inner := width - h.enter.Offset()
	var body string
	if inner >= twoColumnWidth {
		left := max(walletColumnWidth, (inner-1)*2/5)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			h.panel.View(cp, left),
			" ",
			RenderSavingsChart(h.data, ChartOptions{Width: inner - left - 1, Selected: h.cursor, Palette: cp}),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			h.panel.View(cp, inner),
			RenderSavingsChart(h.data, ChartOptions{Width: inner, Selected: h.cursor, Palette: cp}),
		)
	}
	body = lipgloss.NewStyle().PaddingLeft(h.enter.Offset()).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, nav, "", body, "", h.helpView(p))
}

func (h Home) helpView(p Palette) string {
	if !h.showHelp {
		return p.MutedStyle().Render("[ t ] theme   [ Tab ] focus   [ Enter ] select   [ ←→ / hl ] inspect   [ ? ] help   [ q ] quit")
	}
	lines := []string{
		"[ t ]          toggle light/dark theme",
		"[ Tab ]        next button      [ Shift+Tab ] previous button",
		"[ Enter ]      connect with the focused wallet, or disconnect",
		"[ ←→ / hl ]    move the chart tooltip",
		"[ ? ]          hide help",
		"[ q ]          quit",
	}
	return p.MutedStyle().Render(strings.Join(lines, "\n"))
}
