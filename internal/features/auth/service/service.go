package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"miner-backend/internal/common/logger"
	"miner-backend/internal/features/auth/models"
	authrepo "miner-backend/internal/features/auth/repository"
	usermodels "miner-backend/internal/features/user/models"
	userrepo "miner-backend/internal/features/user/repository"
	walletcipher "miner-backend/internal/features/wallet/cipher"
	walletmodels "miner-backend/internal/features/wallet/models"
	walletprovider "miner-backend/internal/features/wallet/provider"
)

var (
	ErrInvalidLogin    = errors.New("invalid telegram login data")
	ErrInvalidInitData = errors.New("invalid init data")
)

// UserCacheInvalidator drops a cached user profile after a mutation.
type UserCacheInvalidator interface {
	Invalidate(ctx context.Context, telegramID int64) error
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *usermodels.User `json:"user"`
}

type AuthService interface {
	// LoginWithTelegram verifies a login-widget payload, provisions the
	// account on first contact and issues an access token.
	LoginWithTelegram(ctx context.Context, data models.TelegramLoginData) (*LoginResult, error)
	// LoginWithInitData does the same for a mini-app init_data payload.
	LoginWithInitData(ctx context.Context, initData string) (*LoginResult, error)
	// CheckUserExists reports whether a user exists with the first-time
	// flag set. Note the conjunction: an existing user whose flag was
	// cleared reads as false.
	CheckUserExists(ctx context.Context, telegramID int64) (bool, error)
}

type authService struct {
	verifier    Verifier
	jwt         *JWTManager
	users       userrepo.UserRepository
	provision   authrepo.ProvisionRepository
	wallets     walletprovider.Provider
	cipher      *walletcipher.Cipher
	cache       UserCacheInvalidator
	botToken    string
	initDataTTL time.Duration
}

func NewAuthService(
	verifier Verifier,
	jwt *JWTManager,
	users userrepo.UserRepository,
	provision authrepo.ProvisionRepository,
	wallets walletprovider.Provider,
	cipher *walletcipher.Cipher,
	cache UserCacheInvalidator,
	botToken string,
	initDataTTL time.Duration,
) AuthService {
	return &authService{
		verifier:    verifier,
		jwt:         jwt,
		users:       users,
		provision:   provision,
		wallets:     wallets,
		cipher:      cipher,
		cache:       cache,
		botToken:    botToken,
		initDataTTL: initDataTTL,
	}
}

func (s *authService) LoginWithTelegram(ctx context.Context, data models.TelegramLoginData) (*LoginResult, error) {
	if !s.verifier.Verify(data) {
		return nil, ErrInvalidLogin
	}
	return s.login(ctx, data.ID, data.Username)
}

func (s *authService) LoginWithInitData(ctx context.Context, raw string) (*LoginResult, error) {
	if err := initdata.Validate(raw, s.botToken, s.initDataTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	return s.login(ctx, parsed.User.ID, parsed.User.Username)
}

func (s *authService) login(ctx context.Context, telegramID int64, username string) (*LoginResult, error) {
	user, err := s.findOrCreateUser(ctx, telegramID, username)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.Issue(user.ID, user.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// findOrCreateUser idempotently resolves the Telegram identity to an
// account. First contact creates the user together with an encrypted
// wallet in a single transaction.
func (s *authService) findOrCreateUser(ctx context.Context, telegramID int64, username string) (*usermodels.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if !errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, err
		}
		return s.createUser(ctx, telegramID, username)
	}

	return s.rearmFirstTime(ctx, user)
}

func (s *authService) createUser(ctx context.Context, telegramID int64, username string) (*usermodels.User, error) {
	if username == "" {
		username = fmt.Sprintf("user_%d", telegramID)
	}

	now := time.Now().UTC()
	user := &usermodels.User{
		ID:             uuid.New().String(),
		TelegramID:     telegramID,
		Username:       username,
		CompletedTasks: []string{},
		Deposits:       []string{},
		Withdrawals:    []string{},
		FirstTime:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	address, privateKey, err := s.wallets.CreateWallet()
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	encrypted, err := s.cipher.Encrypt(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt private key: %w", err)
	}

	wallet := &walletmodels.Wallet{
		ID:                  uuid.New().String(),
		UserID:              user.ID,
		Address:             address,
		EncryptedPrivateKey: encrypted,
		CreatedAt:           now,
	}

	if err := s.provision.CreateUserWithWallet(ctx, user, wallet); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("telegram_id", telegramID).
		Str("user_id", user.ID).
		Msg("provisioned new user with wallet")

	return user, nil
}

// rearmFirstTime re-arms the first-time flag on every login for
// existing users, matching observed product behavior. If the flag is
// ever meant to stay cleared after the first welcome, this is the one
// place to change.
func (s *authService) rearmFirstTime(ctx context.Context, user *usermodels.User) (*usermodels.User, error) {
	if user.FirstTime {
		return user, nil
	}

	if err := s.users.SetFirstTime(ctx, user.ID, true); err != nil {
		return nil, err
	}
	user.FirstTime = true

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, user.TelegramID); err != nil {
			logger.Warn().Err(err).Int64("telegram_id", user.TelegramID).Msg("failed to invalidate user cache")
		}
	}

	return user, nil
}

func (s *authService) CheckUserExists(ctx context.Context, telegramID int64) (bool, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.FirstTime, nil
}
