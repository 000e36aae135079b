package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/Mohsinsiddi/piggybank/internal/rpc"
	"github.com/Mohsinsiddi/piggybank/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Fprintln(out, string(data))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		if cfg.ProjectIDFromEnv() {
			fmt.Fprintln(out, ui.Meta("WalletConnect project ID: from "+config.EnvProjectID))
		}
		if !cfg.HasProjectID() {
			fmt.Fprintln(out, ui.Hint("WalletConnect is disabled until a project ID is set: piggybank config set-project-id <id>"))
		}
		return nil
	},
}

var configSetProjectIDCmd = &cobra.Command{
	Use:   "set-project-id <id>",
	Short: "Set the WalletConnect project ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetProjectID(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success("WalletConnect project ID saved"))
		if cfg.ProjectIDFromEnv() {
			fmt.Fprintln(out, ui.Hint(config.EnvProjectID+" is set and takes precedence over the saved ID"))
		}
		return nil
	},
}

var configSetChainCmd = &cobra.Command{
	Use:   "set-chain [chain]",
	Short: "Set the chain the wallet connects to",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reg := chain.NewRegistry()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			if !isTerminalInput(cmd.InOrStdin()) {
				return errors.New("chain required: piggybank config set-chain <sepolia|ethereum>")
			}
			items := make([]ui.PickerItem, 0, len(reg.All()))
			for _, c := range reg.All() {
				items = append(items, ui.PickerItem{
					Label:    c.DisplayName,
					SubLabel: "chain " + strconv.FormatInt(c.ChainID, 10),
					Value:    c.Name,
				})
			}
			picked, err := ui.PickItem("Select chain", items, cfg.DefaultChain)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Fprintln(out, ui.Meta("Cancelled."))
				return nil
			}
			name = picked
		}

		c, err := reg.GetByName(name)
		if err != nil {
			return fmt.Errorf("unknown chain %q", name)
		}
		cfg.DefaultChain = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet chain set to %s", c.DisplayName)))
		return nil
	},
}

var configAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <chain> <url>",
	Short: "Add a custom RPC URL, tried before the built-in ones",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := args[0], args[1]
		c, err := chain.NewRegistry().GetByName(chainName)
		if err != nil {
			return fmt.Errorf("unknown chain %q", chainName)
		}
		if err := cfg.AddRPC(c.Name, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Added RPC for %s: %s", c.DisplayName, url)))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <chain> <url>",
	Short: "Remove a custom RPC URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := args[0], args[1]
		if err := cfg.RemoveRPC(chainName, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed RPC for %s: %s", chainName, url)))
		return nil
	},
}

var configSetRPCAlgorithmCmd = &cobra.Command{
	Use:       "set-rpc-algorithm <fastest|round-robin|failover>",
	Short:     "Set how an RPC endpoint is chosen when a chain has several",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(rpc.AlgorithmFastest), string(rpc.AlgorithmRoundRobin), string(rpc.AlgorithmFailover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, err := rpc.ParseAlgorithm(args[0])
		if err != nil || args[0] == "" {
			return fmt.Errorf("unknown algorithm %q (valid: fastest, round-robin, failover)", args[0])
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("RPC algorithm set to %q", algo)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configShowCmd,
		configSetProjectIDCmd,
		configSetChainCmd,
		configAddRPCCmd,
		configRemoveRPCCmd,
		configSetRPCAlgorithmCmd,
	)
}
