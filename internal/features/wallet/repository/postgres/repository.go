package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"miner-backend/internal/features/wallet/models"
	"miner-backend/internal/features/wallet/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.WalletRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, address, encrypted_private_key, created_at
		FROM wallets WHERE user_id = $1
	`, userID).Scan(&wallet.ID, &wallet.UserID, &wallet.Address,
		&wallet.EncryptedPrivateKey, &wallet.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}
