package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/logger"
)

const defaultConnectTimeout = 2 * time.Minute

// Client owns the wallet connection state machine:
//
//	disconnected ──Connect──▶ connecting ──ok──▶ connected ──Disconnect──▶ disconnected
//	                              │
//	                              └──err──▶ error ──Connect──▶ connecting
//
// Views read snapshots through State or Subscribe and act only through
// Connect and Disconnect.
type Client struct {
	connectors []Connector
	byID       map[string]Connector
	chainID    int64
	timeout    time.Duration
	log        *logger.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the client's logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// WithConnectTimeout bounds a single connection attempt.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a client that connects to chainID using connectors, in
// the order given.
func NewClient(chainID int64, connectors []Connector, opts ...ClientOption) *Client {
	c := &Client{
		connectors: connectors,
		byID:       make(map[string]Connector, len(connectors)),
		chainID:    chainID,
		timeout:    defaultConnectTimeout,
		state:      State{Status: StatusDisconnected, ChainID: chainID},
		subs:       make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, conn := range connectors {
		c.byID[conn.ID()] = conn
	}
	return c
}

// Connectors returns the configured connectors.
func (c *Client) Connectors() []Connector {
	return c.connectors
}

// ChainID returns the chain the client connects to.
func (c *Client) ChainID() int64 {
	return c.chainID
}

// State returns the current snapshot.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state change. fn runs on the goroutine
// that caused the change and must not block. The returned func unsubscribes.
func (c *Client) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Connect runs the connector with the given ID. It blocks until the
// connector succeeds or fails; observers see the connecting state first.
func (c *Client) Connect(ctx context.Context, id string) error {
	conn, ok := c.byID[id]
	if !ok {
		return ErrConnectorNotFound
	}
	if !conn.Ready() {
		return ErrConnectorNotReady
	}

	var busy error
	c.update(func(s *State) bool {
		switch s.Status {
		case StatusConnecting:
			busy = ErrConnectInFlight
		case StatusConnected:
			busy = ErrAlreadyConnected
		default:
			*s = State{Status: StatusConnecting, ChainID: c.chainID, ConnectorID: id}
			return true
		}
		return false
	})
	if busy != nil {
		return busy
	}
	c.log.WithFields(map[string]any{"connector": id, "chain_id": c.chainID}).Info("wallet connecting")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	acct, err := conn.Connect(ctx, ConnectRequest{
		ChainID: c.chainID,
		OnPairing: func(uri string) {
			c.update(func(s *State) bool {
				if s.Status != StatusConnecting || s.ConnectorID != id {
					return false
				}
				s.PairingURI = uri
				return true
			})
		},
	})
	if err != nil {
		c.set(State{Status: StatusError, ChainID: c.chainID, ConnectorID: id, Err: err})
		c.log.WithFields(map[string]any{"connector": id}).Error(err, "wallet connect failed")
		return err
	}

	chainID := acct.ChainID
	if chainID == 0 {
		chainID = c.chainID
	}
	c.set(State{Status: StatusConnected, Address: acct.Address, ChainID: chainID, ConnectorID: id})
	c.log.WithFields(map[string]any{"connector": id, "address": acct.Address}).Info("wallet connected")
	return nil
}

// Disconnect releases the active connection. From the error state it only
// clears the error; when nothing is connected it does nothing.
func (c *Client) Disconnect(ctx context.Context) error {
	st := c.State()
	switch st.Status {
	case StatusConnected:
	case StatusError:
		c.set(State{Status: StatusDisconnected, ChainID: c.chainID})
		return nil
	default:
		return nil
	}

	var err error
	if conn, ok := c.byID[st.ConnectorID]; ok {
		err = conn.Disconnect(ctx)
	}
	if err != nil {
		c.set(State{Status: StatusError, ChainID: c.chainID, ConnectorID: st.ConnectorID, Err: err})
		c.log.WithFields(map[string]any{"connector": st.ConnectorID}).Error(err, "wallet disconnect failed")
		return err
	}

	c.set(State{Status: StatusDisconnected, ChainID: c.chainID})
	c.log.WithFields(map[string]any{"connector": st.ConnectorID}).Info("wallet disconnected")
	return nil
}

func (c *Client) set(s State) {
	c.update(func(cur *State) bool {
		*cur = s
		return true
	})
}

// update applies fn under the lock and, when fn reports a change, notifies
// subscribers outside of it.
func (c *Client) update(fn func(*State) bool) {
	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return
	}
	if !c.state.Status.Valid() {
		c.state.Status = StatusError
		if c.state.Err == nil {
			c.state.Err = errors.New("wallet entered an unknown state")
		}
	}
	snap := c.state
	subs := make([]func(State), 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}
