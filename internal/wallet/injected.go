package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// KeySource supplies the private key of the environment's wallet.
type KeySource interface {
	Available() bool
	PrivateKey() (string, error)
}

// EnvKey reads the key from an environment variable.
type EnvKey struct {
	Var string
}

func (e EnvKey) Available() bool {
	return strings.TrimSpace(os.Getenv(e.Var)) != ""
}

func (e EnvKey) PrivateKey() (string, error) {
	v := strings.TrimSpace(os.Getenv(e.Var))
	if v == "" {
		return "", ErrNoKey
	}
	return v, nil
}

// StoredKey reads the key from a keystore entry.
type StoredKey struct {
	Store KeystoreBackend
	Ref   string
}

func (s StoredKey) Available() bool {
	return s.Store != nil && s.Store.Has(s.Ref)
}

func (s StoredKey) PrivateKey() (string, error) {
	if s.Store == nil {
		return "", ErrNoKey
	}
	return s.Store.Retrieve(s.Ref)
}

// Injected is the wallet provided by the environment the app runs in: a key
// exported into the process or kept in the OS keychain.
type Injected struct {
	sources []KeySource
	chainID ChainIDFunc
}

// InjectedOption configures an Injected connector.
type InjectedOption func(*Injected)

// WithChainCheck makes Connect confirm the target chain through its
// transport. Transport failures are tolerated; a mismatched ID is not.
func WithChainCheck(fn ChainIDFunc) InjectedOption {
	return func(i *Injected) { i.chainID = fn }
}

// NewInjected creates the injected connector. Sources are tried in order.
func NewInjected(sources []KeySource, opts ...InjectedOption) *Injected {
	i := &Injected{sources: sources}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Injected) ID() string   { return ConnectorInjected }
func (i *Injected) Name() string { return "Injected" }

// Ready reports whether any key source has a key.
func (i *Injected) Ready() bool {
	for _, s := range i.sources {
		if s.Available() {
			return true
		}
	}
	return false
}

// Connect derives the account address from the first available key.
func (i *Injected) Connect(ctx context.Context, req ConnectRequest) (Account, error) {
	key, err := i.privateKey()
	if err != nil {
		return Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	if i.chainID != nil {
		got, err := i.chainID(ctx, req.ChainID)
		if err == nil && got != req.ChainID {
			return Account{}, fmt.Errorf("%w: expected %d, transport reports %d", ErrChainMismatch, req.ChainID, got)
		}
	}

	return Account{
		Address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
		ChainID: req.ChainID,
	}, nil
}

// Disconnect has nothing to release.
func (i *Injected) Disconnect(context.Context) error { return nil }

func (i *Injected) privateKey() (*ecdsa.PrivateKey, error) {
	for _, s := range i.sources {
		if !s.Available() {
			continue
		}
		hexKey, err := s.PrivateKey()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, err := ParsePrivateKey(hexKey)
		if err != nil {
			return nil, err
		}
		return key, nil
	}
	return nil, ErrNoKey
}

// ParsePrivateKey parses a hex private key, with or without 0x.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// AddressOf returns the checksummed address for a hex private key.
func AddressOf(hexKey string) (string, error) {
	key, err := ParsePrivateKey(hexKey)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}
