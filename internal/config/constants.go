package config

import "time"

// ProjectIDPlaceholder ships as the WalletConnect project ID until the
// deployer supplies a real one.
const ProjectIDPlaceholder = "YOUR_PROJECT_ID"

// Environment variables read at startup.
const (
	EnvConfigDir  = "PIGGYBANK_CONFIG_DIR"
	EnvProjectID  = "WALLETCONNECT_PROJECT_ID"
	EnvPrivateKey = "PIGGYBANK_PRIVATE_KEY"
)

// Timeouts used by the wallet connectors and chain transports.
const (
	RPCTimeout     = 15 * time.Second // single JSON-RPC round trip
	ConnectTimeout = 2 * time.Minute  // wallet approval, incl. relay pairing
	BalanceTTL     = 30 * time.Second // query cache lifetime for balances
)
