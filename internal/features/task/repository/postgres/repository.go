package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"miner-backend/internal/features/task/models"
	"miner-backend/internal/features/task/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.TaskRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, point_reward, image_url, link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, task.ID, task.Title, task.PointReward, task.ImageURL, task.Link, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, point_reward, image_url, link, created_at
		FROM tasks WHERE id = $1
	`, id).Scan(&task.ID, &task.Title, &task.PointReward, &task.ImageURL, &task.Link, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) (*models.UserTasks, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.point_reward, t.image_url, t.link, t.created_at,
		       (uct.task_id IS NOT NULL) AS completed
		FROM tasks t
		LEFT JOIN user_completed_tasks uct ON uct.task_id = t.id AND uct.user_id = $1
		ORDER BY t.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	defer rows.Close()

	result := &models.UserTasks{Completed: []models.Task{}, Uncompleted: []models.Task{}}
	for rows.Next() {
		var task models.Task
		var completed bool
		if err := rows.Scan(&task.ID, &task.Title, &task.PointReward, &task.ImageURL,
			&task.Link, &task.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if completed {
			result.Completed = append(result.Completed, task)
		} else {
			result.Uncompleted = append(result.Uncompleted, task)
		}
	}
	return result, rows.Err()
}

func (r *postgresRepository) ListCompletedByUser(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.point_reward, t.image_url, t.link, t.created_at
		FROM tasks t
		JOIN user_completed_tasks uct ON uct.task_id = t.id
		WHERE uct.user_id = $1
		ORDER BY uct.completed_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.PointReward, &task.ImageURL,
			&task.Link, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Complete inserts the completion record and credits the reward in one
// transaction, so a completion is never recorded without its payout.
func (r *postgresRepository) Complete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := r.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO user_completed_tasks (user_id, task_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, task_id) DO NOTHING
	`, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted == 0 {
		return nil, repository.ErrTaskAlreadyCompleted
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users
		SET coin_balance = coin_balance + $2, updated_at = NOW()
		WHERE id = $1
	`, userID, task.PointReward); err != nil {
		return nil, fmt.Errorf("failed to credit task reward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion transaction: %w", err)
	}

	return task, nil
}
