package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"miner-backend/internal/features/auth/models"
)

const testBotToken = "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"

// signLoginData reproduces the widget signing scheme the verifier must
// accept: HMAC-SHA256 over the sorted data-check string, keyed with
// SHA-256 of the bot token.
func signLoginData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+fields[name])
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func signedLogin(t *testing.T, data models.TelegramLoginData) models.TelegramLoginData {
	t.Helper()
	data.Hash = signLoginData(t, testBotToken, data.CheckFields())
	return data
}

func TestHMACVerifier_AcceptsValidSignature(t *testing.T) {
	verifier := NewHMACVerifier(testBotToken)

	data := signedLogin(t, models.TelegramLoginData{
		ID:        987654321,
		Username:  "miner_joe",
		FirstName: "Joe",
		AuthDate:  1700000000,
	})

	assert.True(t, verifier.Verify(data))
}

func TestHMACVerifier_AcceptsPayloadWithoutOptionalFields(t *testing.T) {
	verifier := NewHMACVerifier(testBotToken)

	data := signedLogin(t, models.TelegramLoginData{
		ID:       42,
		AuthDate: 1700000000,
	})

	assert.True(t, verifier.Verify(data))
}

func TestHMACVerifier_RejectsMutatedFields(t *testing.T) {
	verifier := NewHMACVerifier(testBotToken)

	base := signedLogin(t, models.TelegramLoginData{
		ID:        987654321,
		Username:  "miner_joe",
		FirstName: "Joe",
		AuthDate:  1700000000,
	})

	mutations := map[string]func(d models.TelegramLoginData) models.TelegramLoginData{
		"id":         func(d models.TelegramLoginData) models.TelegramLoginData { d.ID++; return d },
		"username":   func(d models.TelegramLoginData) models.TelegramLoginData { d.Username = "miner_jon"; return d },
		"first_name": func(d models.TelegramLoginData) models.TelegramLoginData { d.FirstName = "Jon"; return d },
		"auth_date":  func(d models.TelegramLoginData) models.TelegramLoginData { d.AuthDate++; return d },
		"hash":       func(d models.TelegramLoginData) models.TelegramLoginData { d.Hash = "deadbeef"; return d },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			assert.False(t, verifier.Verify(mutate(base)))
		})
	}
}

func TestHMACVerifier_RejectsWrongBotToken(t *testing.T) {
	data := signedLogin(t, models.TelegramLoginData{ID: 1, AuthDate: 1700000000})

	verifier := NewHMACVerifier("999999:other-token")
	assert.False(t, verifier.Verify(data))
}

func TestAlwaysAcceptVerifier(t *testing.T) {
	verifier := AlwaysAcceptVerifier{}
	assert.True(t, verifier.Verify(models.TelegramLoginData{}))
	assert.True(t, verifier.Verify(models.TelegramLoginData{ID: 1, Hash: "garbage"}))
}
