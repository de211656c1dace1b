package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"miner-backend/internal/features/user/models"
	"miner-backend/internal/features/user/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

const userColumns = `id, telegram_id, username, coin_balance, available_balance, operating_balance,
	first_time, last_mining_claim, upline, created_at, updated_at`

func (r *postgresRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE telegram_id = $1", userColumns)
	return r.getOne(ctx, query, telegramID)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.TelegramID, &user.Username,
		&user.CoinBalance, &user.AvailableBalance, &user.OperatingBalance,
		&user.FirstTime, &user.LastMiningClaim, &user.Upline,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.loadReferences(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// loadReferences fills the user's completed-task, deposit and
// withdrawal id lists.
func (r *postgresRepository) loadReferences(ctx context.Context, user *models.User) error {
	var err error
	if user.CompletedTasks, err = r.listIDs(ctx,
		"SELECT task_id FROM user_completed_tasks WHERE user_id = $1 ORDER BY completed_at", user.ID); err != nil {
		return fmt.Errorf("failed to list completed tasks: %w", err)
	}
	if user.Deposits, err = r.listIDs(ctx,
		"SELECT id FROM deposits WHERE user_id = $1 ORDER BY created_at", user.ID); err != nil {
		return fmt.Errorf("failed to list deposits: %w", err)
	}
	if user.Withdrawals, err = r.listIDs(ctx,
		"SELECT id FROM withdrawals WHERE user_id = $1 ORDER BY created_at", user.ID); err != nil {
		return fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return nil
}

func (r *postgresRepository) listIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepository) SetFirstTime(ctx context.Context, id string, firstTime bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET first_time = $2, updated_at = NOW() WHERE id = $1", id, firstTime)
	if err != nil {
		return fmt.Errorf("failed to update first_time: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// ClaimMining runs the claim as a single transaction: the balance
// increments happen SQL-side so concurrent claims never lose updates.
func (r *postgresRepository) ClaimMining(ctx context.Context, id string, points, uplineBonus float64) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	var upline sql.NullString
	err = tx.QueryRowContext(ctx, `
		UPDATE users
		SET coin_balance = coin_balance + $2, last_mining_claim = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING coin_balance, upline
	`, id, points).Scan(&balance, &upline)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to claim mining points: %w", err)
	}

	if upline.Valid {
		if _, err := tx.ExecContext(ctx, `
			UPDATE users
			SET coin_balance = coin_balance + $2, updated_at = NOW()
			WHERE id = $1
		`, upline.String, uplineBonus); err != nil {
			return 0, fmt.Errorf("failed to credit upline: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit claim transaction: %w", err)
	}

	return balance, nil
}
