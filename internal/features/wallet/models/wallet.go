package models

import "time"

// Wallet is the custodial wallet created alongside a user. The private
// key is stored encrypted only; no code path ever persists or returns
// it in plaintext.
type Wallet struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Address             string    `json:"address"`
	EncryptedPrivateKey string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
}
