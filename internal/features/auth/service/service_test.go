package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miner-backend/internal/features/auth/models"
	usermodels "miner-backend/internal/features/user/models"
	userrepo "miner-backend/internal/features/user/repository"
	walletcipher "miner-backend/internal/features/wallet/cipher"
	walletmodels "miner-backend/internal/features/wallet/models"
)

// fakeStore backs both the user repository and the provisioning
// repository so created users are visible to later lookups.
type fakeStore struct {
	users   map[string]*usermodels.User
	wallets []*walletmodels.Wallet
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*usermodels.User{}}
}

type fakeUserRepo struct {
	store          *fakeStore
	setFirstCalled int
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*usermodels.User, error) {
	for _, u := range r.store.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, userrepo.ErrUserNotFound
}

func (r *fakeUserRepo) SetFirstTime(_ context.Context, id string, firstTime bool) error {
	u, ok := r.store.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.FirstTime = firstTime
	r.setFirstCalled++
	return nil
}

func (r *fakeUserRepo) ClaimMining(_ context.Context, id string, points, uplineBonus float64) (float64, error) {
	u, ok := r.store.users[id]
	if !ok {
		return 0, userrepo.ErrUserNotFound
	}
	u.CoinBalance += points
	return u.CoinBalance, nil
}

type fakeProvisionRepo struct {
	store *fakeStore
}

func (r *fakeProvisionRepo) CreateUserWithWallet(_ context.Context, user *usermodels.User, wallet *walletmodels.Wallet) error {
	r.store.users[user.ID] = user
	r.store.wallets = append(r.store.wallets, wallet)
	return nil
}

type fakeWalletProvider struct {
	created int
}

func (p *fakeWalletProvider) CreateWallet() (string, string, error) {
	p.created++
	return fmt.Sprintf("EQ-test-address-%d", p.created), "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff", nil
}

type fakeInvalidator struct {
	calls []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, telegramID int64) error {
	f.calls = append(f.calls, telegramID)
	return nil
}

type authFixture struct {
	svc       AuthService
	store     *fakeStore
	users     *fakeUserRepo
	provider  *fakeWalletProvider
	cache     *fakeInvalidator
	jwt       *JWTManager
}

func newAuthFixture(t *testing.T, verifier Verifier) *authFixture {
	t.Helper()

	store := newFakeStore()
	users := &fakeUserRepo{store: store}
	provider := &fakeWalletProvider{}
	cache := &fakeInvalidator{}
	jwt := NewJWTManager("test-secret", time.Hour)

	cipher, err := walletcipher.New("test-password")
	require.NoError(t, err)

	svc := NewAuthService(verifier, jwt, users, &fakeProvisionRepo{store: store},
		provider, cipher, cache, testBotToken, 24*time.Hour)

	return &authFixture{svc: svc, store: store, users: users, provider: provider, cache: cache, jwt: jwt}
}

func TestLogin_ProvisionsUserAndWalletOnFirstContact(t *testing.T) {
	f := newAuthFixture(t, AlwaysAcceptVerifier{})

	result, err := f.svc.LoginWithTelegram(context.Background(), models.TelegramLoginData{ID: 1001})
	require.NoError(t, err)

	assert.True(t, result.User.FirstTime)
	assert.Equal(t, "user_1001", result.User.Username, "username defaults when Telegram sends none")
	assert.Zero(t, result.User.CoinBalance)
	assert.Empty(t, result.User.CompletedTasks)

	require.Len(t, f.store.wallets, 1)
	wallet := f.store.wallets[0]
	assert.Equal(t, result.User.ID, wallet.UserID)
	assert.NotEmpty(t, wallet.Address)
	assert.NotEmpty(t, wallet.EncryptedPrivateKey)
	assert.NotContains(t, wallet.EncryptedPrivateKey, "00112233", "private key must not be stored in plaintext")

	claims, err := f.jwt.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, int64(1001), claims.TelegramID)
}

func TestLogin_IsIdempotentPerTelegramID(t *testing.T) {
	f := newAuthFixture(t, AlwaysAcceptVerifier{})
	ctx := context.Background()

	first, err := f.svc.LoginWithTelegram(ctx, models.TelegramLoginData{ID: 1001, Username: "joe"})
	require.NoError(t, err)
	second, err := f.svc.LoginWithTelegram(ctx, models.TelegramLoginData{ID: 1001, Username: "joe"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, f.store.wallets, 1, "a second login must not create a second wallet")
	assert.Equal(t, 1, f.provider.created)
}

func TestLogin_RearmsFirstTimeFlagForReturningUser(t *testing.T) {
	f := newAuthFixture(t, AlwaysAcceptVerifier{})
	ctx := context.Background()

	first, err := f.svc.LoginWithTelegram(ctx, models.TelegramLoginData{ID: 1001})
	require.NoError(t, err)

	// Simulate the welcome flow clearing the flag between logins.
	f.store.users[first.User.ID].FirstTime = false

	second, err := f.svc.LoginWithTelegram(ctx, models.TelegramLoginData{ID: 1001})
	require.NoError(t, err)

	assert.True(t, second.User.FirstTime)
	assert.Equal(t, 1, f.users.setFirstCalled)
	assert.Equal(t, []int64{1001}, f.cache.calls, "re-arm must invalidate the cached profile")
}

func TestLogin_RejectsBadSignature(t *testing.T) {
	f := newAuthFixture(t, NewHMACVerifier(testBotToken))

	_, err := f.svc.LoginWithTelegram(context.Background(), models.TelegramLoginData{
		ID:       1001,
		AuthDate: 1700000000,
		Hash:     "deadbeef",
	})
	assert.ErrorIs(t, err, ErrInvalidLogin)
	assert.Empty(t, f.store.users, "no user may be provisioned for an unverified login")
}

func TestCheckUserExists(t *testing.T) {
	f := newAuthFixture(t, AlwaysAcceptVerifier{})
	ctx := context.Background()

	exists, err := f.svc.CheckUserExists(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, exists, "unknown user")

	result, err := f.svc.LoginWithTelegram(ctx, models.TelegramLoginData{ID: 1001})
	require.NoError(t, err)

	exists, err = f.svc.CheckUserExists(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, exists, "fresh user has the first-time flag set")

	f.store.users[result.User.ID].FirstTime = false
	exists, err = f.svc.CheckUserExists(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, exists, "existing user with a cleared flag reads as false")
}
