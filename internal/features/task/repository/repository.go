package repository

import (
	"context"
	"errors"

	"miner-backend/internal/features/task/models"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// ListByUser splits all tasks into completed/uncompleted for the user.
	ListByUser(ctx context.Context, userID string) (*models.UserTasks, error)
	// ListCompletedByUser returns the task records the user has completed.
	ListCompletedByUser(ctx context.Context, userID string) ([]models.Task, error)
	// Complete records the completion and credits the task's point reward
	// to the user in one transaction. It returns the completed task.
	Complete(ctx context.Context, userID, taskID string) (*models.Task, error)
}
