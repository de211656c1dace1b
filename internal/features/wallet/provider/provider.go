package provider

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/xssnick/tonutils-go/ton/wallet"
)

// Provider generates a blockchain address and its private key. The key
// is returned once, hex-encoded, and must be encrypted before storage.
type Provider interface {
	CreateWallet() (address string, privateKeyHex string, err error)
}

// TONProvider derives a TON V4R2 wallet address from a fresh ed25519
// keypair. No chain interaction happens here; the wallet is deployed
// lazily on its first outgoing transfer.
type TONProvider struct{}

func NewTONProvider() *TONProvider {
	return &TONProvider{}
}

func (p *TONProvider) CreateWallet() (string, string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate keypair: %w", err)
	}

	addr, err := wallet.AddressFromPubKey(pub, wallet.V4R2, wallet.DefaultSubwallet)
	if err != nil {
		return "", "", fmt.Errorf("failed to derive wallet address: %w", err)
	}

	return addr.String(), hex.EncodeToString(priv.Seed()), nil
}
