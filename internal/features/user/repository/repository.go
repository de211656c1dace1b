package repository

import (
	"context"
	"errors"

	"miner-backend/internal/features/user/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	SetFirstTime(ctx context.Context, id string, firstTime bool) error
	// ClaimMining atomically credits the user's coin balance, stamps the
	// claim time and pays the upline bonus in the same transaction. It
	// returns the claimer's updated balance.
	ClaimMining(ctx context.Context, id string, points, uplineBonus float64) (float64, error)
}
