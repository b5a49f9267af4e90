package usecase_app_account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nine-muses/cuesong/domain/domain_app/domain_app_account"
	"github.com/nine-muses/cuesong/internal/tokenutil"
	"github.com/nine-muses/cuesong/repository/repository_app/repository_app_account"
	"github.com/nine-muses/cuesong/usecase"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// AppAccountUsecase implements the usecase interface for auth accounts.
// It embeds the generic BaseUsecase for CRUD and adds credential verification.
type AppAccountUsecase struct {
	usecase.BaseUsecase[domain_app_account.AppAccount]
	accountRepo repository_app_account.AppAccountRepository
	timeout     time.Duration
}

// NewAppAccountUsecase creates a new usecase for auth accounts.
// It uses the generic NewBaseUsecase constructor for the embedded CRUD surface.
func NewAppAccountUsecase(repo repository_app_account.AppAccountRepository, timeout time.Duration) domain_app_account.AppAccountUsecase {
	baseUsecase := usecase.NewBaseUsecase[domain_app_account.AppAccount](repo, timeout)
	return &AppAccountUsecase{
		BaseUsecase: baseUsecase,
		accountRepo: repo,
		timeout:     timeout,
	}
}

func (uc *AppAccountUsecase) GetByUserName(ctx context.Context, userName string) (*domain_app_account.AppAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if userName == "" {
		return nil, errors.New("user name cannot be empty")
	}
	return uc.accountRepo.GetOneByFilter(ctx, bson.M{"user_name": userName})
}

// Login verifies the credentials against the stored bcrypt hash and issues
// an HS256 access token. Lookup miss and hash mismatch report the same error.
func (uc *AppAccountUsecase) Login(ctx context.Context, request *domain_app_account.LoginRequest, secret string, expiryHour int) (*domain_app_account.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	validations := []func() error{
		func() error {
			if request == nil {
				return errors.New("login request cannot be nil")
			}
			return nil
		},
		func() error {
			if request.UserName == "" || request.Password == "" {
				return errors.New("user name and password are required")
			}
			return nil
		},
	}
	for _, validate := range validations {
		if err := validate(); err != nil {
			return nil, err
		}
	}

	account, err := uc.accountRepo.GetOneByFilter(ctx, bson.M{"user_name": request.UserName})
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(request.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	accessToken, err := tokenutil.CreateAccessToken(account, secret, expiryHour)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	return &domain_app_account.LoginResponse{AccessToken: accessToken}, nil
}

// EnsureAdmin seeds the admin account when it does not exist yet.
// An existing account keeps its stored hash.
func (uc *AppAccountUsecase) EnsureAdmin(ctx context.Context, userName string, password string) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if userName == "" || password == "" {
		return errors.New("admin user name and password are required")
	}

	exists, err := uc.accountRepo.ExistsByFilter(ctx, bson.M{"user_name": userName})
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	account := &domain_app_account.AppAccount{
		UserName: userName,
		Password: string(hash),
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}
