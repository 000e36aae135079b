// Package theme holds the light/dark mode shared by the whole interface.
//
// A Provider owns the current value and mirrors every change onto a Root as
// the "data-theme" attribute, which is what renderers read to pick their
// palette. Components obtain the Provider from a context.Context; asking for
// it outside a provider's context is a programming error.
package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Theme is the visual mode of the interface.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Attribute is the root attribute the current theme is written to.
const Attribute = "data-theme"

// ErrNoProvider is returned when a consumer reads the theme outside of a
// provider's context.
var ErrNoProvider = errors.New("theme: consumer used outside of a theme provider")

// Parse accepts "light" or "dark" in any case.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Detect picks the initial theme from a dark-preference probe. The probe is
// called once; without one the result is Light.
func Detect(prefersDark func() bool) Theme {
	if prefersDark != nil && prefersDark() {
		return Dark
	}
	return Light
}

// Next returns the opposite theme.
func (t Theme) Next() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is Dark.
func (t Theme) IsDark() bool { return t == Dark }

func (t Theme) String() string { return string(t) }

// Root receives the theme attribute. ui.Document implements it.
type Root interface {
	SetAttr(name, value string)
}

// Provider owns the current theme.
type Provider struct {
	mu    sync.RWMutex
	theme Theme
	root  Root
}

// NewProvider creates a provider and immediately writes initial to root.
// Anything other than Dark is treated as Light.
func NewProvider(initial Theme, root Root) *Provider {
	if initial != Dark {
		initial = Light
	}
	p := &Provider{theme: initial, root: root}
	p.sync(initial)
	return p
}

// Theme returns the current theme.
func (p *Provider) Theme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// Toggle flips the theme and returns the new value.
func (p *Provider) Toggle() Theme {
	p.mu.Lock()
	p.theme = p.theme.Next()
	t := p.theme
	p.sync(t)
	p.mu.Unlock()
	return t
}

func (p *Provider) sync(t Theme) {
	if p.root != nil {
		p.root.SetAttr(Attribute, string(t))
	}
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the provider stored in ctx.
func FromContext(ctx context.Context) (*Provider, error) {
	if ctx != nil {
		if p, ok := ctx.Value(ctxKey{}).(*Provider); ok && p != nil {
			return p, nil
		}
	}
	return nil, ErrNoProvider
}

// MustFromContext is FromContext for component constructors: it panics with
// ErrNoProvider when no provider is present.
func MustFromContext(ctx context.Context) *Provider {
	p, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return p
}
