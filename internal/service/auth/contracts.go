package auth

import (
	"context"

	"ecodeli/internal/domain"
	"ecodeli/internal/session"
)

type userRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
}

// TokenIssuer signs and refreshes session tokens.
type TokenIssuer interface {
	Issue(u *domain.User) (session.TokenPair, error)
	Refresh(refreshToken string) (session.TokenPair, *session.Session, error)
}

// EmailSender queues transactional e-mails.
type EmailSender interface {
	SendEmail(ctx context.Context, e domain.Email) error
}
