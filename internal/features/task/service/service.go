package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"miner-backend/internal/common/logger"
	"miner-backend/internal/features/task/models"
	"miner-backend/internal/features/task/repository"
)

var ErrInvalidTask = errors.New("invalid task")

// UserCacheInvalidator drops a cached user profile after a mutation.
type UserCacheInvalidator interface {
	Invalidate(ctx context.Context, telegramID int64) error
}

type TaskService interface {
	CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error)
	// CompleteTask records the completion once and credits the task's
	// point reward to the user's coin balance.
	CompleteTask(ctx context.Context, userID string, telegramID int64, taskID string) (*models.Task, error)
	GetUserTasks(ctx context.Context, userID string) (*models.UserTasks, error)
	// GetCompletedTasks returns the task records the user completed;
	// an unknown user yields an empty list, not an error.
	GetCompletedTasks(ctx context.Context, userID string) ([]models.Task, error)
}

type taskService struct {
	repo  repository.TaskRepository
	cache UserCacheInvalidator
}

func NewTaskService(repo repository.TaskRepository, cache UserCacheInvalidator) TaskService {
	return &taskService{repo: repo, cache: cache}
}

func (s *taskService) CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error) {
	if input.Title == "" || input.PointReward <= 0 {
		return nil, ErrInvalidTask
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		PointReward: input.PointReward,
		ImageURL:    input.ImageURL,
		Link:        input.Link,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) CompleteTask(ctx context.Context, userID string, telegramID int64, taskID string) (*models.Task, error) {
	task, err := s.repo.Complete(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, telegramID); err != nil {
			logger.Warn().Err(err).Int64("telegram_id", telegramID).Msg("user cache invalidation failed")
		}
	}

	return task, nil
}

func (s *taskService) GetUserTasks(ctx context.Context, userID string) (*models.UserTasks, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *taskService) GetCompletedTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return s.repo.ListCompletedByUser(ctx, userID)
}
