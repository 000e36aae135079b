package wallet

import (
	"fmt"
	"strings"
)

// Status is the connection lifecycle. The set is closed: every state a
// wallet library reports must be mapped onto one of these four.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDisconnected, StatusConnecting, StatusConnected, StatusError:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus maps a status name, including the names other wallet libraries
// use, onto Status.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disconnected", "idle":
		return StatusDisconnected, nil
	case "connecting", "reconnecting", "pending":
		return StatusConnecting, nil
	case "connected", "success":
		return StatusConnected, nil
	case "error":
		return StatusError, nil
	}
	return "", fmt.Errorf("unknown wallet status %q", name)
}

// State is a snapshot of the wallet connection.
type State struct {
	Status      Status
	Address     string
	ChainID     int64
	ConnectorID string
	// PairingURI is set while a relay connector waits for approval.
	PairingURI string
	// Err is the last connector error, shown verbatim.
	Err error
}

// IsConnected reports whether an account is connected.
func (s State) IsConnected() bool {
	return s.Status == StatusConnected
}

// ErrMessage returns Err's text, or "" when there is no error.
func (s State) ErrMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
