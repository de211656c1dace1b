package repository

import (
	"context"

	usermodels "miner-backend/internal/features/user/models"
	walletmodels "miner-backend/internal/features/wallet/models"
)

// ProvisionRepository persists a new user and their wallet atomically:
// a user row must never exist without its wallet row.
type ProvisionRepository interface {
	CreateUserWithWallet(ctx context.Context, user *usermodels.User, wallet *walletmodels.Wallet) error
}
