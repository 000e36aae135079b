package wallet

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Mohsinsiddi/piggybank/internal/config"
)

// Pairing is a relay pairing proposal.
type Pairing struct {
	URI       string
	Topic     string
	SymKey    string
	ProjectID string
	ChainID   int64
}

// Relay carries a pairing to a remote wallet and returns the account the
// wallet approved. The relay protocol itself lives outside this module.
type Relay interface {
	Pair(ctx context.Context, p Pairing) (Account, error)
}

// Unpairer is implemented by relays that can end a session.
type Unpairer interface {
	Unpair(ctx context.Context, topic string) error
}

// WalletConnect is the relay-based connector.
type WalletConnect struct {
	projectID string
	relay     Relay
	showQR    bool
	random    io.Reader

	mu    sync.Mutex
	topic string
}

// WalletConnectOption configures the connector.
type WalletConnectOption func(*WalletConnect)

// WithRelay sets the relay collaborator.
func WithRelay(r Relay) WalletConnectOption {
	return func(w *WalletConnect) { w.relay = r }
}

// WithQR controls whether the wallet panel shows the pairing link.
func WithQR(show bool) WalletConnectOption {
	return func(w *WalletConnect) { w.showQR = show }
}

// WithRandom replaces the entropy source used for pairing keys.
func WithRandom(r io.Reader) WalletConnectOption {
	return func(w *WalletConnect) { w.random = r }
}

// NewWalletConnect creates the connector for projectID.
func NewWalletConnect(projectID string, opts ...WalletConnectOption) *WalletConnect {
	w := &WalletConnect{
		projectID: strings.TrimSpace(projectID),
		showQR:    true,
		random:    rand.Reader,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WalletConnect) ID() string   { return ConnectorWalletConnect }
func (w *WalletConnect) Name() string { return "WalletConnect" }

// ShowQR reports whether the pairing URI should be shown.
func (w *WalletConnect) ShowQR() bool { return w.showQR }

// Ready requires a real project ID and a relay.
func (w *WalletConnect) Ready() bool {
	return w.hasProjectID() && w.relay != nil
}

func (w *WalletConnect) hasProjectID() bool {
	return w.projectID != "" && w.projectID != config.ProjectIDPlaceholder
}

// Connect proposes a pairing and waits for the relay to return an approval.
func (w *WalletConnect) Connect(ctx context.Context, req ConnectRequest) (Account, error) {
	if !w.hasProjectID() {
		return Account{}, fmt.Errorf("%w: walletconnect project id not configured", ErrConnectorNotReady)
	}
	if w.relay == nil {
		return Account{}, ErrRelayUnavailable
	}

	p, err := w.newPairing(req.ChainID)
	if err != nil {
		return Account{}, err
	}
	if req.OnPairing != nil {
		req.OnPairing(p.URI)
	}

	acct, err := w.relay.Pair(ctx, p)
	if err != nil {
		return Account{}, err
	}
	addr, err := ChecksumAddress(acct.Address)
	if err != nil {
		return Account{}, err
	}
	acct.Address = addr
	if acct.ChainID == 0 {
		acct.ChainID = req.ChainID
	}

	w.mu.Lock()
	w.topic = p.Topic
	w.mu.Unlock()
	return acct, nil
}

// Disconnect ends the relay session if the relay supports it.
func (w *WalletConnect) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	topic := w.topic
	w.topic = ""
	w.mu.Unlock()

	if u, ok := w.relay.(Unpairer); ok && topic != "" {
		return u.Unpair(ctx, topic)
	}
	return nil
}

// newPairing builds a v2 pairing URI: the topic is the SHA-256 of a fresh
// 32-byte symmetric key.
func (w *WalletConnect) newPairing(chainID int64) (Pairing, error) {
	sym := make([]byte, 32)
	if _, err := io.ReadFull(w.random, sym); err != nil {
		return Pairing{}, fmt.Errorf("generating pairing key: %w", err)
	}
	sum := sha256.Sum256(sym)
	topic := hex.EncodeToString(sum[:])
	symKey := hex.EncodeToString(sym)

	return Pairing{
		URI:       fmt.Sprintf("wc:%s@2?relay-protocol=irn&symKey=%s", topic, symKey),
		Topic:     topic,
		SymKey:    symKey,
		ProjectID: w.projectID,
		ChainID:   chainID,
	}, nil
}
