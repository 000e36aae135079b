package config

// Config holds all piggybank configuration.
type Config struct {
	WalletConnectProjectID string              `json:"walletconnect_project_id" validate:"required"`
	DefaultChain           string              `json:"default_chain"            validate:"oneof=sepolia ethereum"`
	CustomRPCs             map[string][]string `json:"custom_rpcs"              validate:"dive,keys,oneof=sepolia ethereum,endkeys,dive,url"`
	LogLevel               string              `json:"log_level"                validate:"omitempty,oneof=trace debug info warn error"`
	ShowQR                 bool                `json:"show_qr"`
	RPCAlgorithm           string              `json:"rpc_algorithm"            validate:"omitempty,oneof=fastest round-robin failover"`

	// internal: config dir path used for Save()
	configDir string
	// envProjectID comes from WALLETCONNECT_PROJECT_ID or .env and is never
	// written back to config.json.
	envProjectID string
}

// InjectedKeyRef is the keychain reference holding the injected wallet's key.
const InjectedKeyRef = "piggybank.injected"
