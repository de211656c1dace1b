package repository

import (
	"context"
	"errors"

	"miner-backend/internal/features/wallet/models"
)

var ErrWalletNotFound = errors.New("wallet not found")

// WalletRepository reads provisioned wallets. Creation happens inside
// the account-provisioning transaction, never as a standalone write.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
}
