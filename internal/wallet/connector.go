package wallet

import (
	"context"
	"errors"
)

// Connector IDs.
const (
	ConnectorInjected      = "injected"
	ConnectorWalletConnect = "walletConnect"
)

// Errors.
var (
	ErrConnectorNotFound = errors.New("connector not found")
	ErrConnectorNotReady = errors.New("connector not ready")
	ErrAlreadyConnected  = errors.New("wallet already connected")
	ErrConnectInFlight   = errors.New("connection request already pending")
	ErrNoKey             = errors.New("no injected wallet key available")
	ErrInvalidKey        = errors.New("invalid private key")
	ErrChainMismatch     = errors.New("wallet is on a different chain")
	ErrRelayUnavailable  = errors.New("walletconnect relay unavailable")
	ErrInvalidAddress    = errors.New("invalid address")
)

// Account is what a successful connection yields.
type Account struct {
	Address string
	ChainID int64
}

// ConnectRequest carries the target chain and a hook for connectors that
// hand the user a pairing URI before approval.
type ConnectRequest struct {
	ChainID   int64
	OnPairing func(uri string)
}

// Connector is one strategy for establishing a wallet connection.
type Connector interface {
	ID() string
	Name() string
	// Ready reports whether the connector can be offered right now.
	Ready() bool
	Connect(ctx context.Context, req ConnectRequest) (Account, error)
	Disconnect(ctx context.Context) error
}

// ChainIDFunc asks a chain's transport for its chain ID.
type ChainIDFunc func(ctx context.Context, chainID int64) (int64, error)
