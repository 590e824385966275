package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AnnouncementInput is what a client or merchant publishes.
type AnnouncementInput struct {
	Title         string
	FromAddress   string
	ToAddress     string
	PriceCents    int64
	InsuranceTier domain.InsuranceTierID
	PaymentRef    string
	Deadline      time.Time
}

func validateAnnouncement(in *AnnouncementInput, now time.Time) error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.FromAddress) == "" ||
		strings.TrimSpace(in.ToAddress) == "" {
		return fmt.Errorf("%w: title and addresses are required", apperr.ErrInvalid)
	}
	if in.PriceCents <= 0 {
		return fmt.Errorf("%w: price must be positive", apperr.ErrInvalid)
	}
	if in.InsuranceTier == "" {
		in.InsuranceTier = domain.InsuranceNone
	}
	if !in.InsuranceTier.Valid() {
		return fmt.Errorf("%w: unknown insurance tier %q", apperr.ErrInvalid, in.InsuranceTier)
	}
	if !in.Deadline.After(now) {
		return fmt.Errorf("%w: deadline must be in the future", apperr.ErrInvalid)
	}
	return nil
}

// CreateAnnouncement publishes a delivery request.
func (s *Service) CreateAnnouncement(ctx context.Context, ownerID int64, in AnnouncementInput) (*domain.CourierAnnouncement, error) {
	if err := validateAnnouncement(&in, s.now()); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a := &domain.CourierAnnouncement{
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(in.Title),
		FromAddress:   strings.TrimSpace(in.FromAddress),
		ToAddress:     strings.TrimSpace(in.ToAddress),
		PriceCents:    in.PriceCents,
		InsuranceTier: in.InsuranceTier,
		PaymentRef:    strings.TrimSpace(in.PaymentRef),
		Deadline:      in.Deadline.UTC(),
		Status:        domain.AnnouncementOpen,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAnnouncement returns one announcement.
func (s *Service) GetAnnouncement(ctx context.Context, id int64) (*domain.CourierAnnouncement, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.announcements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: announcement %d", apperr.ErrNotFound, id)
	}
	return a, nil
}

// ListOpenAnnouncements pages through announcements couriers can accept.
func (s *Service) ListOpenAnnouncements(ctx context.Context, limit, offset int) ([]domain.CourierAnnouncement, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.announcements.ListOpen(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CourierAnnouncement{}
	}
	return out, nil
}

// ListOwnAnnouncements returns what ownerID has published.
func (s *Service) ListOwnAnnouncements(ctx context.Context, ownerID int64) ([]domain.CourierAnnouncement, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.announcements.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CourierAnnouncement{}
	}
	return out, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}
