package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/Mohsinsiddi/piggybank/internal/logger"
	"github.com/Mohsinsiddi/piggybank/internal/query"
	"github.com/Mohsinsiddi/piggybank/internal/rpc"
	"github.com/Mohsinsiddi/piggybank/internal/theme"
	"github.com/Mohsinsiddi/piggybank/internal/ui"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const fallbackWidth = 100

// openKeystore opens the keychain holding the injected wallet's key.
// Tests swap it for an in-memory store.
var openKeystore = func(dir string) wallet.KeystoreBackend {
	return wallet.OpenKeystore(dir)
}

// session is everything the app and the subcommands share for one run.
type session struct {
	chains *chain.Registry
	chain  *chain.Chain
	pool   *rpc.Pool
	wallet *wallet.Client
	query  *query.Client
}

func newSession(log *logger.Logger) (*session, error) {
	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return nil, err
	}
	chains := chain.NewRegistry().WithCustomRPCs(cfg.CustomRPCs)
	ch, err := chains.GetByName(cfg.DefaultChain)
	if err != nil {
		return nil, fmt.Errorf("default chain %q: %w", cfg.DefaultChain, err)
	}
	pool := rpc.NewPool(algo, rpc.WithLogger(log))

	chainCheck := func(ctx context.Context, chainID int64) (int64, error) {
		target, err := chains.GetByChainID(chainID)
		if err != nil {
			return 0, err
		}
		tr, err := pool.Transport(ctx, target)
		if err != nil {
			return 0, err
		}
		return tr.ChainID(ctx)
	}

	connectors := []wallet.Connector{
		wallet.NewInjected([]wallet.KeySource{
			wallet.EnvKey{Var: config.EnvPrivateKey},
			wallet.StoredKey{Store: openKeystore(cfg.Dir()), Ref: config.InjectedKeyRef},
		}, wallet.WithChainCheck(chainCheck)),
		newWalletConnect(),
	}

	return &session{
		chains: chains,
		chain:  ch,
		pool:   pool,
		wallet: wallet.NewClient(ch.ChainID, connectors,
			wallet.WithLogger(log),
			wallet.WithConnectTimeout(config.ConnectTimeout),
		),
		query: query.NewClient(query.WithTTL(config.BalanceTTL)),
	}, nil
}

// newWalletConnect builds the relay connector from config. The binary ships
// no relay, so the connector is offered but never ready.
func newWalletConnect() *wallet.WalletConnect {
	return wallet.NewWalletConnect(cfg.ProjectID(), wallet.WithQR(cfg.ShowQR))
}

func runApp(cmd *cobra.Command) error {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, closer, err := logger.OpenFile(cfg.LogPath(), level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close() //nolint:errcheck

	s, err := newSession(log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := !snapshot && isTerminal(out)

	deps := ui.Deps{
		Wallet:      s.wallet,
		Query:       s.query,
		Chains:      s.chains,
		Transports:  s.pool,
		Log:         log,
		Theme:       theme.Theme(themeFlag),
		PrefersDark: darkProbe(out),
		Static:      !interactive,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := ui.NewApp(ctx, deps)
	defer app.Close()

	if !interactive {
		fmt.Fprintln(out, app.Render(frameWidth(out)))
		return nil
	}

	log.WithFields(map[string]any{"chain": s.chain.Name, "version": Version}).Info("piggybank started")
	_, err = tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(out),
	).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

// darkProbe asks the terminal for its background colour. Output that is not
// a terminal has no background to ask about, so the light theme applies.
func darkProbe(w io.Writer) func() bool {
	if !isTerminal(w) {
		return nil
	}
	return lipgloss.HasDarkBackground
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func isTerminalInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func frameWidth(w io.Writer) int {
	if widthFlag > 0 {
		return widthFlag
	}
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallbackWidth
}
