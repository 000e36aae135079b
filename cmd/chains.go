package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/rpc"
	"github.com/Mohsinsiddi/piggybank/internal/ui"
	"github.com/spf13/cobra"
)

const pingTimeout = 15 * time.Second

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List the chains the wallet can connect to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reg := chain.NewRegistry().WithCustomRPCs(cfg.CustomRPCs)

		fmt.Fprintln(out, ui.Banner())
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 10},
			{Title: "Network", Width: 18},
			{Title: "Chain ID", Width: 10, Right: true},
			{Title: "Currency", Width: 8},
			{Title: "RPCs", Width: 4, Right: true},
			{Title: "Active", Width: 6},
		})
		for _, c := range reg.All() {
			network := c.DisplayName
			if c.Testnet {
				network += ui.Meta(" (testnet)")
			}
			active := ""
			if c.Name == cfg.DefaultChain {
				active = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{
				ui.Val(c.Name),
				network,
				strconv.FormatInt(c.ChainID, 10),
				c.NativeCurrency,
				strconv.Itoa(len(c.RPCs)),
				active,
			})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Hint("Switch with: piggybank config set-chain <name>"))
		return nil
	},
}

var chainsPingCmd = &cobra.Command{
	Use:   "ping [chain]",
	Short: "Probe every RPC of a chain and show the one that would be used",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := cfg.DefaultChain
		if len(args) == 1 {
			name = args[0]
		}
		c, err := chain.NewRegistry().WithCustomRPCs(cfg.CustomRPCs).GetByName(name)
		if err != nil {
			return fmt.Errorf("unknown chain %q", name)
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()

		var spin *ui.Spinner
		if isTerminal(cmd.ErrOrStderr()) {
			spin = ui.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Probing %d %s RPCs...", len(c.RPCs), c.DisplayName))
			spin.Start()
		}
		endpoints := rpc.Probe(ctx, c.RPCs)
		if spin != nil {
			spin.StopWithMsg(ui.Meta(fmt.Sprintf("probed %d endpoints", len(endpoints))))
		}

		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render(c.DisplayName+" RPCs"))
		fmt.Fprint(out, renderProbe(endpoints, algo))
		return nil
	},
}

// renderProbe tabulates probe results and names the endpoint algo picks.
func renderProbe(endpoints []rpc.Endpoint, algo rpc.Algorithm) string {
	picked, pickErr := rpc.NewPicker(algo).Pick(endpoints)

	t := ui.NewTable([]ui.Column{
		{Title: "RPC URL", Width: 44},
		{Title: "Latency", Width: 9, Right: true},
		{Title: "Block #", Width: 10, Right: true},
		{Title: "Status", Width: 10},
	})
	for _, e := range endpoints {
		latency := fmt.Sprintf("%dms", e.Latency.Milliseconds())
		block := strconv.FormatUint(e.BlockNumber, 10)
		status := ui.Success("healthy")
		if e.Err != nil {
			latency, block, status = "-", "-", ui.Err("down")
		}
		url := e.URL
		if pickErr == nil && e.URL == picked.URL {
			url = ui.StyleSelected.Render(url)
		}
		t.AddRow(ui.Row{url, latency, block, status})
	}

	s := t.Render() + "\n"
	if pickErr != nil {
		return s + ui.Err(pickErr.Error()) + "\n"
	}
	return s + ui.Meta(fmt.Sprintf("%s picks %s", algo, picked.URL)) + "\n"
}

func init() {
	chainsCmd.AddCommand(chainsPingCmd)
}
