package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	hardhatKey  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	hardhatAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// cli runs the root command against a private config dir and keystore.
type cli struct {
	t     *testing.T
	dir   string
	store *wallet.InMemoryKeystore
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv(config.EnvProjectID, "")
	t.Setenv(config.EnvPrivateKey, "")

	c := &cli{t: t, dir: t.TempDir(), store: wallet.NewInMemoryKeystore()}

	prevStore, prevClock := openKeystore, clock
	openKeystore = func(string) wallet.KeystoreBackend { return c.store }
	clock = func() time.Time { return time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		openKeystore, clock = prevStore, prevClock
	})
	return c
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runWithInput("", args...)
}

func (c *cli) runWithInput(stdin string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", c.dir}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags puts every flag back to its default so runs don't leak into
// each other through the package-level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
