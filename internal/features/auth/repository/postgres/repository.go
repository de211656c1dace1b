package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"miner-backend/internal/features/auth/repository"
	usermodels "miner-backend/internal/features/user/models"
	walletmodels "miner-backend/internal/features/wallet/models"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ProvisionRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUserWithWallet(ctx context.Context, user *usermodels.User, wallet *walletmodels.Wallet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin provisioning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, telegram_id, username, coin_balance, available_balance,
			operating_balance, first_time, upline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.TelegramID, user.Username,
		user.CoinBalance, user.AvailableBalance, user.OperatingBalance,
		user.FirstTime, user.Upline, user.CreatedAt, user.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (id, user_id, address, encrypted_private_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, wallet.ID, wallet.UserID, wallet.Address,
		wallet.EncryptedPrivateKey, wallet.CreatedAt); err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit provisioning transaction: %w", err)
	}

	return nil
}
