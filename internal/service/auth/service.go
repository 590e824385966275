package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
	"ecodeli/internal/session"
)

const minPasswordLength = 8

// bcrypt ignores everything past 72 bytes
const maxPasswordLength = 72

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	Locale   string
}

// Result is returned on sign-up and login.
type Result struct {
	User   *domain.User
	Tokens session.TokenPair
}

// Service registers users and opens sessions.
type Service struct {
	users            userRepository
	tokens           TokenIssuer
	mailer           EmailSender
	cost             int
	dummyHash        []byte
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates an auth Service. cost is the bcrypt cost; zero selects bcrypt.DefaultCost.
func NewService(users userRepository, tokens TokenIssuer, mailer EmailSender, cost int, timeout time.Duration, logger logx.Logger) (*Service, error) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logx.Nop()
	}
	// compared against for unknown e-mails so both login failures cost the same
	dummy, err := bcrypt.GenerateFromPassword([]byte("ecodeli-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		users:            users,
		tokens:           tokens,
		mailer:           mailer,
		cost:             cost,
		dummyHash:        dummy,
		operationTimeout: timeout,
		logger:           logger,
	}, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegister(in *RegisterInput) error {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if !domain.ValidateEmail(in.Email) {
		return fmt.Errorf("%w: invalid email", apperr.ErrInvalid)
	}
	if len(in.Password) < minPasswordLength || len(in.Password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be %d to %d characters", apperr.ErrInvalid, minPasswordLength, maxPasswordLength)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}
	if !in.Role.Registrable() {
		return fmt.Errorf("%w: role %q cannot be registered", apperr.ErrInvalid, in.Role)
	}
	return nil
}

// Register creates an account and opens its first session.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	if err := validateRegister(&in); err != nil {
		return Result{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
		Locale:       in.Locale,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return Result{}, err
	}

	tokens, err := s.tokens.Issue(u)
	if err != nil {
		return Result{}, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.Info("user registered",
		logx.String("event", "user_registered"),
		logx.Int64("user_id", u.ID),
		logx.String("role", string(u.Role)),
	)
	s.welcome(ctx, u)

	return Result{User: u, Tokens: tokens}, nil
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return Result{}, fmt.Errorf("%w: email and password are required", apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return Result{}, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return Result{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Result{}, errBadCredentials
		}
		return Result{}, fmt.Errorf("compare password: %w", err)
	}

	tokens, err := s.tokens.Issue(u)
	if err != nil {
		return Result{}, fmt.Errorf("issue tokens: %w", err)
	}
	return Result{User: u, Tokens: tokens}, nil
}

// Refresh swaps a refresh token for a new pair. The account must still exist.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Result, error) {
	_, sess, err := s.tokens.Refresh(strings.TrimSpace(refreshToken))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return Result{}, err
	}
	if u == nil {
		return Result{}, fmt.Errorf("%w: account no longer exists", apperr.ErrUnauthorized)
	}

	// reissue from the stored user so a role change takes effect
	tokens, err := s.tokens.Issue(u)
	if err != nil {
		return Result{}, fmt.Errorf("issue tokens: %w", err)
	}
	return Result{User: u, Tokens: tokens}, nil
}

// Me returns the user behind a session.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: account no longer exists", apperr.ErrUnauthorized)
	}
	return u, nil
}

func (s *Service) welcome(ctx context.Context, u *domain.User) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.SendEmail(ctx, domain.Email{
		To:       u.Email,
		Subject:  "Welcome to EcoDeli",
		Template: "welcome",
		Locale:   u.Locale,
		Data:     map[string]string{"name": u.Name},
	})
	if err != nil {
		s.logger.Warn("welcome email failed", logx.Int64("user_id", u.ID), logx.Err(err))
	}
}
