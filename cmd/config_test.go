package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShow(t *testing.T) {
	out, err := newCLI(t).run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "walletconnect_project_id")
	assert.Contains(t, out, config.ProjectIDPlaceholder)
	assert.Contains(t, out, "rpc_algorithm")
	assert.Contains(t, out, "set-project-id", "placeholder ID gets a hint")
}

func TestConfigSetProjectID(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("config", "set-project-id", "3f1c0ffee")
	require.NoError(t, err)

	out, err := c.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "3f1c0ffee")
	assert.NotContains(t, out, "set-project-id")
}

func TestConfigSetProjectIDRejectsPlaceholder(t *testing.T) {
	_, err := newCLI(t).run("config", "set-project-id", config.ProjectIDPlaceholder)
	assert.Error(t, err)
}

func TestConfigEnvProjectIDIsNotSaved(t *testing.T) {
	c := newCLI(t)
	t.Setenv(config.EnvProjectID, "secret-from-env")

	_, err := c.run("config", "add-rpc", "sepolia", "https://rpc.example.org")
	require.NoError(t, err)
	out, err := c.run("config", "set-project-id", "3f1c0ffee")
	require.NoError(t, err)
	assert.Contains(t, out, "takes precedence")

	data, err := os.ReadFile(filepath.Join(c.dir, "config.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-from-env")
	assert.Contains(t, string(data), "3f1c0ffee")

	out, err = c.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "from "+config.EnvProjectID)
	assert.NotContains(t, out, "secret-from-env")
}

func TestConfigSetChain(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("config", "set-chain", "ethereum")
	require.NoError(t, err)
	assert.Contains(t, out, "Ethereum")

	out, err = c.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"default_chain": "ethereum"`)
}

func TestConfigSetChainUnknown(t *testing.T) {
	_, err := newCLI(t).run("config", "set-chain", "polygon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chain")
}

func TestConfigSetChainNeedsArgWithoutTerminal(t *testing.T) {
	_, err := newCLI(t).run("config", "set-chain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain required")
}

func TestConfigAddAndRemoveRPC(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("config", "add-rpc", "sepolia", "https://rpc.example.com")
	require.NoError(t, err)

	out, err := c.run("chains")
	require.NoError(t, err)
	assert.Contains(t, out, "sepolia")

	out, err = c.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "https://rpc.example.com")

	_, err = c.run("config", "add-rpc", "sepolia", "https://rpc.example.com")
	assert.Error(t, err, "duplicates are rejected")

	_, err = c.run("config", "remove-rpc", "sepolia", "https://rpc.example.com")
	require.NoError(t, err)
	out, _ = c.run("config", "show")
	assert.NotContains(t, out, "https://rpc.example.com")
}

func TestConfigAddRPCValidates(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("config", "add-rpc", "polygon", "https://rpc.example.com")
	assert.Error(t, err)

	_, err = c.run("config", "add-rpc", "sepolia", "not a url")
	assert.Error(t, err, "Save validates URLs")
}

func TestConfigSetRPCAlgorithm(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("config", "set-rpc-algorithm", "round-robin")
	require.NoError(t, err)

	out, _ := c.run("config", "show")
	assert.Contains(t, out, `"rpc_algorithm": "round-robin"`)

	_, err = c.run("config", "set-rpc-algorithm", "random")
	assert.Error(t, err)
}
