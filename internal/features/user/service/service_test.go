package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miner-backend/internal/features/user/models"
	"miner-backend/internal/features/user/repository"
)

type fakeUserRepo struct {
	users       map[string]*models.User
	uplines     map[string]string
	bonusesPaid map[string]float64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       map[string]*models.User{},
		uplines:     map[string]string{},
		bonusesPaid: map[string]float64{},
	}
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetFirstTime(_ context.Context, id string, firstTime bool) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.FirstTime = firstTime
	return nil
}

func (r *fakeUserRepo) ClaimMining(_ context.Context, id string, points, uplineBonus float64) (float64, error) {
	u, ok := r.users[id]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	u.CoinBalance += points
	if uplineID, ok := r.uplines[id]; ok {
		if upline, ok := r.users[uplineID]; ok {
			upline.CoinBalance += uplineBonus
			r.bonusesPaid[uplineID] += uplineBonus
		}
	}
	return u.CoinBalance, nil
}

func TestClaimMiningPoints_CreditsClaimer(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", TelegramID: 1001}

	svc := NewUserService(repo, nil)

	result, err := svc.ClaimMiningPoints(context.Background(), "u1", 1001, 100)
	require.NoError(t, err)

	assert.Equal(t, "Mining points claimed successfully", result.Message)
	assert.Equal(t, float64(100), result.UpdatedBalance)
}

func TestClaimMiningPoints_PaysFlatTenPercentToUpline(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", TelegramID: 1001}
	repo.users["up"] = &models.User{ID: "up", TelegramID: 2002}
	repo.uplines["u1"] = "up"

	svc := NewUserService(repo, nil)

	result, err := svc.ClaimMiningPoints(context.Background(), "u1", 1001, 100)
	require.NoError(t, err)

	assert.Equal(t, float64(100), result.UpdatedBalance, "the claimer's balance is returned, not the upline's")
	assert.Equal(t, float64(10), repo.bonusesPaid["up"])
}

func TestClaimMiningPoints_UnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)

	_, err := svc.ClaimMiningPoints(context.Background(), "missing", 1, 100)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestClaimMiningPoints_RejectsNonPositivePoints(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", TelegramID: 1001}

	svc := NewUserService(repo, nil)

	for _, points := range []float64{0, -5} {
		_, err := svc.ClaimMiningPoints(context.Background(), "u1", 1001, points)
		assert.ErrorIs(t, err, ErrInvalidPoints)
	}
	assert.Zero(t, repo.users["u1"].CoinBalance, "rejected claims must not mutate the balance")
}

func TestGetByTelegramID_FallsBackToStore(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", TelegramID: 1001, Username: "joe"}

	svc := NewUserService(repo, nil)

	user, err := svc.GetByTelegramID(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, "joe", user.Username)

	_, err = svc.GetByTelegramID(context.Background(), 9999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
