package domain_app_account

import (
	"context"
	"time"

	"github.com/nine-muses/cuesong/usecase"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppAccount struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserName  string             `bson:"user_name"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type LoginRequest struct {
	UserName string `form:"user_name" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// AppAccountUsecase defines the usecase interface for auth accounts.
// It embeds the generic BaseUsecase and adds credential operations.
type AppAccountUsecase interface {
	usecase.BaseUsecase[AppAccount]
	GetByUserName(ctx context.Context, userName string) (*AppAccount, error)
	Login(ctx context.Context, request *LoginRequest, secret string, expiryHour int) (*LoginResponse, error)
	EnsureAdmin(ctx context.Context, userName string, password string) error
}
