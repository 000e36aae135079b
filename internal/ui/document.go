package ui

import "sync"

// Document is the root node the app renders into. It carries string
// attributes; the theme provider writes data-theme here and View reads it
// back to choose a palette.
type Document struct {
	mu    sync.RWMutex
	attrs map[string]string
}

// NewDocument returns an empty document root.
func NewDocument() *Document {
	return &Document{attrs: make(map[string]string)}
}

// SetAttr sets an attribute on the root.
func (d *Document) SetAttr(name, value string) {
	d.mu.Lock()
	d.attrs[name] = value
	d.mu.Unlock()
}

// Attr returns an attribute, or "" when unset.
func (d *Document) Attr(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.attrs[name]
}
