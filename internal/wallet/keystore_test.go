package wallet

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// normaliseHexKey
// ---------------------------------------------------------------------------

func TestNormaliseHexKey(t *testing.T) {
	tests := map[string]string{
		"0xabc123":  "abc123",
		"0Xabc123":  "abc123",
		"abc123":    "abc123",
		"  0xabc  ": "abc",
		"0x":        "",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normaliseHexKey(in), in)
	}
}

// ---------------------------------------------------------------------------
// Keystore (file backend)
// ---------------------------------------------------------------------------

func newFileKeystore(t *testing.T) *Keystore {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keychainService,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: keyring.FixedStringPrompt("test-password"),
	})
	require.NoError(t, err)
	return &Keystore{ring: ring}
}

func TestKeystoreRoundTrip(t *testing.T) {
	ks := newFileKeystore(t)
	const ref = "piggybank.injected"

	assert.False(t, ks.Has(ref))
	require.NoError(t, ks.Store(ref, "0xAbC123"))
	assert.True(t, ks.Has(ref))

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "AbC123", got)

	require.NoError(t, ks.Delete(ref))
	assert.False(t, ks.Has(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

func TestKeystoreNilRing(t *testing.T) {
	ks := &Keystore{}
	assert.Error(t, ks.Store("a", "b"))
	_, err := ks.Retrieve("a")
	assert.Error(t, err)
	assert.False(t, ks.Has("a"))
	assert.NoError(t, ks.Delete("a"))
}

func TestInMemoryKeystore(t *testing.T) {
	ks := NewInMemoryKeystore()
	require.NoError(t, ks.Store("k", " 0xdead "))
	assert.True(t, ks.Has("k"))
	v, err := ks.Retrieve("k")
	require.NoError(t, err)
	assert.Equal(t, "dead", v)

	require.NoError(t, ks.Delete("k"))
	_, err = ks.Retrieve("k")
	assert.Error(t, err)
}

func TestOpenKeystoreUsesEnvPassword(t *testing.T) {
	t.Setenv(EnvKeyringPassword, "from-env")
	pw, err := filePassword("unlock")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
}
