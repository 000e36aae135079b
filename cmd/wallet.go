package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/Mohsinsiddi/piggybank/internal/ui"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	walletKeyFlag string
	walletYesFlag bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the injected wallet and show connector status",
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a private key in the OS keychain for the injected wallet",
	Long: `Store a private key in the OS keychain. The injected wallet uses it when
PIGGYBANK_PRIVATE_KEY is not set.

The key is read from --key, or from stdin (hidden when stdin is a terminal).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		key := walletKeyFlag
		if key == "" {
			var err error
			if key, err = readKey(cmd); err != nil {
				return err
			}
		}
		addr, err := wallet.AddressOf(key)
		if err != nil {
			return err
		}

		store := openKeystore(cfg.Dir())
		if store.Has(config.InjectedKeyRef) && !walletYesFlag &&
			!ui.Confirm(cmd.InOrStdin(), out, "A key is already stored. Replace it?") {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		if err := store.Store(config.InjectedKeyRef, key); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("Key stored for "+ui.Addr(addr)))
		if os.Getenv(config.EnvPrivateKey) != "" {
			fmt.Fprintln(out, ui.Warn(config.EnvPrivateKey+" is set and takes precedence over the stored key"))
		}
		return nil
	},
}

var walletShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which wallet connectors are ready",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store := openKeystore(cfg.Dir())

		sources := []struct {
			label string
			src   wallet.KeySource
		}{
			{"env " + config.EnvPrivateKey, wallet.EnvKey{Var: config.EnvPrivateKey}},
			{"keychain", wallet.StoredKey{Store: store, Ref: config.InjectedKeyRef}},
		}

		injected := "not ready"
		var pairs [][2]string
		for _, s := range sources {
			if !s.src.Available() {
				pairs = append(pairs, [2]string{s.label, "-"})
				continue
			}
			addr := "unreadable key"
			if k, err := s.src.PrivateKey(); err == nil {
				if a, err := wallet.AddressOf(k); err == nil {
					addr = a
				}
			}
			if injected == "not ready" {
				injected = "ready (" + s.label + ")"
			}
			pairs = append(pairs, [2]string{s.label, addr})
		}

		wc := "ready"
		switch {
		case newWalletConnect().Ready():
		case !cfg.HasProjectID():
			wc = "needs a project ID"
		default:
			wc = "needs a relay"
		}

		fmt.Fprintln(out, ui.KeyValueBlock("Wallet connectors", append([][2]string{
			{"Injected", injected},
			{"WalletConnect", wc},
			{"Chain", cfg.DefaultChain},
		}, pairs...)))
		if injected == "not ready" {
			fmt.Fprintln(out, ui.Hint("Import a key with: piggybank wallet import"))
		}
		return nil
	},
}

var walletForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the stored private key from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store := openKeystore(cfg.Dir())
		if !store.Has(config.InjectedKeyRef) {
			fmt.Fprintln(out, ui.Meta("No stored key."))
			return nil
		}
		if !walletYesFlag && !ui.ConfirmDanger(cmd.InOrStdin(), out, "Remove the stored private key?") {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		if err := store.Delete(config.InjectedKeyRef); err != nil {
			return fmt.Errorf("removing key: %w", err)
		}
		fmt.Fprintln(out, ui.Success("Stored key removed"))
		return nil
	},
}

// readKey reads one private key from stdin, without echo on a terminal.
func readKey(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Private key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return "", errors.New("no key given")
	}
	return line, nil
}

func init() {
	walletImportCmd.Flags().StringVar(&walletKeyFlag, "key", "", "hex private key (prefer stdin; flags end up in shell history)")
	walletImportCmd.Flags().BoolVarP(&walletYesFlag, "yes", "y", false, "replace a stored key without asking")
	walletForgetCmd.Flags().BoolVarP(&walletYesFlag, "yes", "y", false, "skip confirmation")
	walletCmd.AddCommand(walletImportCmd, walletShowCmd, walletForgetCmd)
}
