package models

import "time"

// User is the application account keyed by a unique Telegram id.
type User struct {
	ID               string     `json:"id"`
	TelegramID       int64      `json:"telegram_id"`
	Username         string     `json:"username"`
	CoinBalance      float64    `json:"coin_balance"`
	AvailableBalance float64    `json:"available_balance"`
	OperatingBalance float64    `json:"operating_balance"`
	CompletedTasks   []string   `json:"completed_tasks"`
	Deposits         []string   `json:"deposits"`
	Withdrawals      []string   `json:"withdrawals"`
	FirstTime        bool       `json:"first_time"`
	LastMiningClaim  *time.Time `json:"last_mining_claim,omitempty"`
	Upline           *string    `json:"upline,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ClaimResult is returned to the client after a successful mining claim.
type ClaimResult struct {
	Message        string  `json:"message"`
	UpdatedBalance float64 `json:"updatedBalance"`
}
