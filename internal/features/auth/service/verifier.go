package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"miner-backend/internal/features/auth/models"
)

// Verifier checks that a login payload was genuinely signed by
// Telegram. The implementation is chosen by the composition root;
// production code never branches on environment internally.
type Verifier interface {
	Verify(data models.TelegramLoginData) bool
}

// HMACVerifier implements the Telegram login-widget scheme: the signing
// key is SHA-256 of the bot token, and the signature is HMAC-SHA256 of
// the sorted data-check string.
type HMACVerifier struct {
	botToken string
}

func NewHMACVerifier(botToken string) *HMACVerifier {
	return &HMACVerifier{botToken: botToken}
}

func (v *HMACVerifier) Verify(data models.TelegramLoginData) bool {
	fields := data.CheckFields()

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+fields[name])
	}
	checkString := strings.Join(pairs, "\n")

	secret := sha256.Sum256([]byte(v.botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(data.Hash))
}

// AlwaysAcceptVerifier accepts any payload. For local development and
// tests only; must never be wired in production.
type AlwaysAcceptVerifier struct{}

func (AlwaysAcceptVerifier) Verify(models.TelegramLoginData) bool {
	return true
}
