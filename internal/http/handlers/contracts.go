package handlers

import (
	"context"

	"ecodeli/internal/domain"
	"ecodeli/internal/service/auth"
)

type authUsecase interface {
	Register(ctx context.Context, in auth.RegisterInput) (auth.Result, error)
	Login(ctx context.Context, email, password string) (auth.Result, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Result, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

type merchantUsecase interface {
	Overview(ctx context.Context, merchantID int64) (*domain.MerchantOverview, error)
}
