package ui

import (
	"context"
	"sync"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/savings"
	"github.com/Mohsinsiddi/piggybank/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
)

const testAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

var fixedNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func mockData() []savings.Point { return savings.Mock(fixedNow) }

// stubConnector is a scriptable wallet connector. When release is set,
// Connect blocks until it is closed.
type stubConnector struct {
	id, name string
	ready    bool
	addr     string
	err      error
	release  chan struct{}

	mu       sync.Mutex
	disconns int
}

func (s *stubConnector) ID() string   { return s.id }
func (s *stubConnector) Name() string { return s.name }
func (s *stubConnector) Ready() bool  { return s.ready }

func (s *stubConnector) Connect(ctx context.Context, req wallet.ConnectRequest) (wallet.Account, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return wallet.Account{}, ctx.Err()
		}
	}
	if s.err != nil {
		return wallet.Account{}, s.err
	}
	return wallet.Account{Address: s.addr, ChainID: req.ChainID}, nil
}

func (s *stubConnector) Disconnect(context.Context) error {
	s.mu.Lock()
	s.disconns++
	s.mu.Unlock()
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
