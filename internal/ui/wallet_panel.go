package ui

import (
	"context"
	"strings"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const disconnectID = "disconnect"

// walletStateMsg carries a snapshot of the wallet client.
type walletStateMsg wallet.State

// walletActionMsg reports the end of a connect or disconnect request. The
// resulting state arrives separately as a walletStateMsg.
type walletActionMsg struct {
	action string
	err    error
}

type button struct {
	id      string
	label   string
	enabled bool
}

// balanceLine is the native balance shown for a connected account.
type balanceLine struct {
	address string
	text    string
	err     error
	loading bool
}

// WalletPanel renders the wallet connection and dispatches connect and
// disconnect requests. It never changes wallet state itself.
type WalletPanel struct {
	client  *wallet.Client
	chains  *chain.Registry
	state   wallet.State
	focus   int
	balance balanceLine
	spinner spinner.Model
}

// NewWalletPanel creates the panel showing client's current state.
func NewWalletPanel(client *wallet.Client, chains *chain.Registry) WalletPanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return WalletPanel{client: client, chains: chains, state: client.State(), spinner: sp}
}

// tick advances the connecting spinner. It stops ticking once the wallet
// leaves the connecting state.
func (w WalletPanel) tick(msg spinner.TickMsg) (WalletPanel, tea.Cmd) {
	if w.state.Status != wallet.StatusConnecting {
		return w, nil
	}
	var cmd tea.Cmd
	w.spinner, cmd = w.spinner.Update(msg)
	return w, cmd
}

// State is the snapshot the panel last rendered.
func (w WalletPanel) State() wallet.State { return w.state }

// SetState replaces the snapshot.
func (w WalletPanel) SetState(s wallet.State) WalletPanel {
	if s.Address != w.state.Address || !s.IsConnected() {
		w.balance = balanceLine{}
	}
	w.state = s
	if n := len(w.buttons()); w.focus >= n {
		w.focus = max(0, n-1)
	}
	return w
}

func (w WalletPanel) setBalanceLoading(addr string) WalletPanel {
	w.balance = balanceLine{address: addr, loading: true}
	return w
}

func (w WalletPanel) setBalance(addr, text string, err error) WalletPanel {
	if addr != w.state.Address {
		return w
	}
	w.balance = balanceLine{address: addr, text: text, err: err}
	return w
}

func (w WalletPanel) buttons() []button {
	if w.state.IsConnected() {
		return []button{{id: disconnectID, label: "Disconnect", enabled: true}}
	}
	conns := w.client.Connectors()
	out := make([]button, 0, len(conns))
	for _, c := range conns {
		out = append(out, button{id: c.ID(), label: "Connect " + c.Name(), enabled: c.Ready()})
	}
	return out
}

func (w WalletPanel) FocusNext() WalletPanel {
	if n := len(w.buttons()); n > 0 {
		w.focus = (w.focus + 1) % n
	}
	return w
}

func (w WalletPanel) FocusPrev() WalletPanel {
	if n := len(w.buttons()); n > 0 {
		w.focus = (w.focus - 1 + n) % n
	}
	return w
}

// Press activates the focused button. Disabled buttons do nothing.
func (w WalletPanel) Press(ctx context.Context) tea.Cmd {
	btns := w.buttons()
	if w.focus >= len(btns) || !btns[w.focus].enabled {
		return nil
	}
	b := btns[w.focus]
	client := w.client

	if b.id == disconnectID {
		return func() tea.Msg {
			return walletActionMsg{action: "disconnect", err: client.Disconnect(ctx)}
		}
	}
	return func() tea.Msg {
		return walletActionMsg{action: "connect", err: client.Connect(ctx, b.id)}
	}
}

func (w WalletPanel) View(p Palette, width int) string {
	var sb strings.Builder
	sb.WriteString(p.TitleStyle().Render("Wallet"))
	sb.WriteString("\n")

	if w.state.IsConnected() {
		sb.WriteString(p.TextStyle().Render("Connected: ") + p.AccentStyle().Render(w.state.Address))
		sb.WriteString("\n")
		if line := w.networkLine(p); line != "" {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
		sb.WriteString(w.renderButtons(p))
		return p.PanelStyle(width).Render(sb.String())
	}

	sb.WriteString(w.renderButtons(p))

	if w.state.Status == wallet.StatusConnecting {
		sb.WriteString("\n\n" + p.AccentStyle().Render(w.spinner.View()) + p.MutedStyle().Render("Connecting..."))
		if uri := w.state.PairingURI; uri != "" {
			if w.showPairing() {
				inner := max(10, width-4)
				sb.WriteString("\n" + p.MutedStyle().Render("Open this pairing link in your wallet:"))
				sb.WriteString("\n" + p.TextStyle().Width(inner).Render(uri))
			} else {
				sb.WriteString("\n" + p.MutedStyle().Render("Approve the pairing in your wallet."))
			}
		}
	}
	if msg := w.state.ErrMessage(); msg != "" {
		sb.WriteString("\n\n" + p.DangerStyle().Render(msg))
	}

	return p.PanelStyle(width).Render(sb.String())
}

// pairingDisplay is implemented by connectors that let the user hide the
// pairing link.
type pairingDisplay interface {
	ShowQR() bool
}

func (w WalletPanel) showPairing() bool {
	for _, c := range w.client.Connectors() {
		if c.ID() != w.state.ConnectorID {
			continue
		}
		if d, ok := c.(pairingDisplay); ok {
			return d.ShowQR()
		}
	}
	return true
}

func (w WalletPanel) renderButtons(p Palette) string {
	btns := w.buttons()
	if len(btns) == 0 {
		return p.MutedStyle().Render("No wallet connectors configured")
	}
	parts := make([]string, 0, len(btns)*2)
	for i, b := range btns {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, p.ButtonStyle(i == w.focus, b.enabled).Render("[ "+b.label+" ]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (w WalletPanel) networkLine(p Palette) string {
	if w.chains == nil {
		return ""
	}
	ch, err := w.chains.GetByChainID(w.state.ChainID)
	if err != nil {
		return ""
	}
	line := p.MutedStyle().Render("Network: ") + p.TextStyle().Render(ch.DisplayName)
	if ch.Explorer != "" {
		line += "\n" + p.MutedStyle().Render("Explorer: ") + p.TextStyle().Render(ch.AddressURL(w.state.Address))
	}

	switch {
	case w.balance.loading:
		line += "\n" + p.MutedStyle().Render("Balance: loading...")
	case w.balance.err != nil:
		line += "\n" + p.MutedStyle().Render("Balance: ") + p.DangerStyle().Render("balance unavailable")
	case w.balance.text != "":
		line += "\n" + p.MutedStyle().Render("Balance: ") +
			p.TextStyle().Render(w.balance.text+" "+ch.NativeCurrency)
	}
	return line
}
