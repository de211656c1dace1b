package service

import (
	"context"
	"errors"

	"miner-backend/internal/common/logger"
	"miner-backend/internal/features/user/models"
	"miner-backend/internal/features/user/repository"
)

// Flat one-level referral bonus paid to the upline on every claim.
const referralBonusRate = 0.1

const claimMessage = "Mining points claimed successfully"

var ErrInvalidPoints = errors.New("points must be positive")

// UserCache is the read-through cache in front of the user store.
type UserCache interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Set(ctx context.Context, u *models.User) error
	Invalidate(ctx context.Context, telegramID int64) error
}

type UserService interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	// ClaimMiningPoints credits points to the user, stamps the claim time
	// and pays the upline their referral share atomically.
	ClaimMiningPoints(ctx context.Context, userID string, telegramID int64, points float64) (*models.ClaimResult, error)
}

type userService struct {
	repo  repository.UserRepository
	cache UserCache
}

func NewUserService(repo repository.UserRepository, cache UserCache) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetByTelegramID(ctx, telegramID); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			logger.Warn().Err(err).Int64("telegram_id", telegramID).Msg("user cache read failed")
		}
	}

	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			logger.Warn().Err(err).Int64("telegram_id", telegramID).Msg("user cache write failed")
		}
	}

	return user, nil
}

func (s *userService) ClaimMiningPoints(ctx context.Context, userID string, telegramID int64, points float64) (*models.ClaimResult, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}

	balance, err := s.repo.ClaimMining(ctx, userID, points, points*referralBonusRate)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, telegramID); err != nil {
			logger.Warn().Err(err).Int64("telegram_id", telegramID).Msg("user cache invalidation failed")
		}
	}

	return &models.ClaimResult{
		Message:        claimMessage,
		UpdatedBalance: balance,
	}, nil
}
