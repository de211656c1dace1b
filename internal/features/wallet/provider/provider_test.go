package provider

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTONProvider_CreateWallet(t *testing.T) {
	p := NewTONProvider()

	address, privateKey, err := p.CreateWallet()
	require.NoError(t, err)
	assert.NotEmpty(t, address)

	seed, err := hex.DecodeString(privateKey)
	require.NoError(t, err)
	assert.Len(t, seed, 32, "private key is the 32-byte ed25519 seed")
}

func TestTONProvider_WalletsAreUnique(t *testing.T) {
	p := NewTONProvider()

	firstAddr, firstKey, err := p.CreateWallet()
	require.NoError(t, err)
	secondAddr, secondKey, err := p.CreateWallet()
	require.NoError(t, err)

	assert.NotEqual(t, firstAddr, secondAddr)
	assert.NotEqual(t, firstKey, secondKey)
}
