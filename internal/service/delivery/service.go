package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
	"ecodeli/internal/ports/deliverytx"
)

const staleBatch = 100

// Config holds delivery settings.
type Config struct {
	Currency   string
	PendingTTL time.Duration
}

// Service runs the courier delivery lifecycle: accept, start, cancel and code validation.
type Service struct {
	deliveries       deliveryRepository
	announcements    announcementRepository
	settler          Settler
	notifier         Notifier
	cfg              Config
	validations      *prometheus.CounterVec
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newCode          func() (string, error)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService creates a new delivery Service.
func NewService(
	deliveries deliveryRepository,
	announcements announcementRepository,
	settler Settler,
	notifier Notifier,
	cfg Config,
	validations *prometheus.CounterVec,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 48 * time.Hour
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		deliveries:       deliveries,
		announcements:    announcements,
		settler:          settler,
		notifier:         notifier,
		cfg:              cfg,
		validations:      validations,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newCode:          domain.NewValidationCode,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetCodeGenerator replaces the validation code generator.
func (s *Service) SetCodeGenerator(gen func() (string, error)) { s.newCode = gen }

// Accept lets a courier take an open announcement. The delivery starts pending
// and the client's funds are held in escrow.
func (s *Service) Accept(ctx context.Context, courierID, announcementID int64) (*domain.CourierDelivery, error) {
	code, err := s.newCode()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		d   *domain.CourierDelivery
		ann *domain.CourierAnnouncement
	)
	err = s.deliveries.WithTx(ctx, func(tx deliverytx.Repository) error {
		a, err := tx.GetAnnouncementForUpdate(ctx, announcementID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("%w: announcement %d", apperr.ErrNotFound, announcementID)
		}
		if a.Status != domain.AnnouncementOpen {
			return fmt.Errorf("%w: announcement already taken", apperr.ErrConflict)
		}
		if !a.Deadline.After(s.now()) {
			return fmt.Errorf("%w: announcement deadline passed", apperr.ErrConflict)
		}
		if a.OwnerID == courierID {
			return fmt.Errorf("%w: cannot accept own announcement", apperr.ErrConflict)
		}

		d = &domain.CourierDelivery{
			AnnouncementID: a.ID,
			CourierID:      courierID,
			Status:         domain.DeliveryPending,
			ValidationCode: code,
			CreatedAt:      s.now(),
		}
		if err := tx.InsertDelivery(ctx, d); err != nil {
			return err
		}
		if err := tx.UpdateAnnouncementStatus(ctx, a.ID, domain.AnnouncementTaken); err != nil {
			return err
		}
		e := &domain.Escrow{
			DeliveryID:  d.ID,
			PayerID:     a.OwnerID,
			AmountCents: a.PriceCents,
			Currency:    s.cfg.Currency,
			ProviderRef: a.PaymentRef,
			Status:      domain.EscrowHeld,
		}
		if err := tx.InsertEscrow(ctx, e); err != nil {
			return err
		}
		ann = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery accepted",
		logx.String("event", "delivery_accepted"),
		logx.Int64("delivery_id", d.ID),
		logx.Int64("announcement_id", ann.ID),
		logx.Int64("courier_id", courierID),
	)
	s.notify(ctx, ann.OwnerID, domain.NotifyDeliveryAccepted,
		"Delivery accepted", fmt.Sprintf("A courier accepted %q.", ann.Title))

	return d, nil
}

// Start moves a pending delivery to active once the courier picked up the parcel.
func (s *Service) Start(ctx context.Context, courierID, deliveryID int64) (*domain.CourierDelivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		d   *domain.CourierDelivery
		ann *domain.CourierAnnouncement
	)
	err := s.deliveries.WithTx(ctx, func(tx deliverytx.Repository) error {
		cur, err := s.lockCourierDelivery(ctx, tx, courierID, deliveryID)
		if err != nil {
			return err
		}
		if !cur.Status.CanTransitionTo(domain.DeliveryActive) {
			return fmt.Errorf("%w: delivery is %s", apperr.ErrConflict, cur.Status)
		}
		if err := tx.UpdateDeliveryStatus(ctx, cur.ID, domain.DeliveryActive, nil); err != nil {
			return err
		}
		cur.Status = domain.DeliveryActive
		d = cur

		ann, err = tx.GetAnnouncementForUpdate(ctx, cur.AnnouncementID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if ann != nil {
		s.notify(ctx, ann.OwnerID, domain.NotifyDeliveryStarted,
			"Delivery started", fmt.Sprintf("Your parcel %q is on its way.", ann.Title))
	}
	return d, nil
}

// Cancel stops a live delivery. The courier hands the announcement back to the
// board; the owner withdraws it entirely and the provider-side payment is voided.
func (s *Service) Cancel(ctx context.Context, userID, deliveryID int64) (*domain.CourierDelivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.cancel(ctx, deliveryID, func(d *domain.CourierDelivery, a *domain.CourierAnnouncement) (bool, error) {
		switch userID {
		case d.CourierID:
			return false, nil
		case a.OwnerID:
			return true, nil
		}
		return false, fmt.Errorf("%w: delivery %d", apperr.ErrNotFound, deliveryID)
	})
	if err != nil {
		return nil, err
	}
	return res.delivery, nil
}

type cancelResult struct {
	delivery     *domain.CourierDelivery
	announcement *domain.CourierAnnouncement
	escrow       *domain.Escrow
	byOwner      bool
}

// cancel runs the shared cancellation transaction; who reports whether the
// owner is cancelling or rejects the caller.
func (s *Service) cancel(
	ctx context.Context,
	deliveryID int64,
	who func(*domain.CourierDelivery, *domain.CourierAnnouncement) (bool, error),
) (cancelResult, error) {
	var res cancelResult
	err := s.deliveries.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: delivery %d", apperr.ErrNotFound, deliveryID)
		}
		a, err := tx.GetAnnouncementForUpdate(ctx, d.AnnouncementID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("%w: announcement %d", apperr.ErrNotFound, d.AnnouncementID)
		}
		byOwner, err := who(d, a)
		if err != nil {
			return err
		}
		if !d.Status.CanTransitionTo(domain.DeliveryCancelled) {
			return fmt.Errorf("%w: delivery is %s", apperr.ErrConflict, d.Status)
		}
		if err := tx.UpdateDeliveryStatus(ctx, d.ID, domain.DeliveryCancelled, nil); err != nil {
			return err
		}
		d.Status = domain.DeliveryCancelled

		next := domain.AnnouncementOpen
		if byOwner {
			next = domain.AnnouncementClosed
		}
		if err := tx.UpdateAnnouncementStatus(ctx, a.ID, next); err != nil {
			return err
		}
		a.Status = next

		e, err := tx.GetEscrowByDelivery(ctx, d.ID)
		if err != nil {
			return err
		}
		if e != nil && e.Status == domain.EscrowHeld {
			if err := tx.UpdateEscrowStatus(ctx, e.ID, domain.EscrowRefunded); err != nil {
				return err
			}
			e.Status = domain.EscrowRefunded
		}

		res = cancelResult{delivery: d, announcement: a, escrow: e, byOwner: byOwner}
		return nil
	})
	if err != nil {
		return cancelResult{}, err
	}

	s.logger.Info("delivery cancelled",
		logx.String("event", "delivery_cancelled"),
		logx.Int64("delivery_id", res.delivery.ID),
		logx.Int64("announcement_id", res.announcement.ID),
		logx.Bool("by_owner", res.byOwner),
	)

	if res.byOwner && res.escrow != nil && res.escrow.Status == domain.EscrowRefunded {
		s.settle(ctx, *res.escrow)
	}
	s.notify(ctx, res.announcement.OwnerID, domain.NotifyDeliveryCancelled,
		"Delivery cancelled", fmt.Sprintf("The delivery of %q was cancelled.", res.announcement.Title))
	if res.byOwner {
		s.notify(ctx, res.delivery.CourierID, domain.NotifyDeliveryCancelled,
			"Delivery cancelled", fmt.Sprintf("The client cancelled %q.", res.announcement.Title))
	}
	return res, nil
}

// Validate completes an active delivery when the courier submits the code the
// client received. The escrow is released and captured with the provider.
func (s *Service) Validate(ctx context.Context, courierID, deliveryID int64, code string) (domain.ValidationResult, error) {
	if len(code) != domain.ValidationCodeLength {
		s.countValidation("malformed")
		return domain.ValidationResult{}, fmt.Errorf("%w: code must be %d characters", apperr.ErrInvalid, domain.ValidationCodeLength)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		result domain.ValidationResult
		ann    *domain.CourierAnnouncement
		escrow *domain.Escrow
	)
	err := s.deliveries.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := s.lockCourierDelivery(ctx, tx, courierID, deliveryID)
		if err != nil {
			return err
		}
		if d.Status != domain.DeliveryActive {
			return fmt.Errorf("%w: delivery is %s", apperr.ErrConflict, d.Status)
		}
		if !domain.MatchValidationCode(d.ValidationCode, code) {
			return apperr.ErrInvalidCode
		}

		now := s.now()
		if err := tx.UpdateDeliveryStatus(ctx, d.ID, domain.DeliveryCompleted, &now); err != nil {
			return err
		}

		e, err := tx.GetEscrowByDelivery(ctx, d.ID)
		if err != nil {
			return err
		}
		escrowStatus := domain.EscrowStatus("")
		if e != nil {
			if e.Status == domain.EscrowHeld {
				if err := tx.UpdateEscrowStatus(ctx, e.ID, domain.EscrowReleased); err != nil {
					return err
				}
				e.Status = domain.EscrowReleased
			}
			escrowStatus = e.Status
			escrow = e
		}

		a, err := tx.GetAnnouncementForUpdate(ctx, d.AnnouncementID)
		if err != nil {
			return err
		}
		if a != nil {
			if err := tx.UpdateAnnouncementStatus(ctx, a.ID, domain.AnnouncementClosed); err != nil {
				return err
			}
			ann = a
		}

		result = domain.ValidationResult{
			DeliveryID:  d.ID,
			Status:      domain.DeliveryCompleted,
			ValidatedAt: now,
			Escrow:      escrowStatus,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCode) {
			s.countValidation("mismatch")
			s.logger.Warn("validation code mismatch",
				logx.Int64("delivery_id", deliveryID),
				logx.Int64("courier_id", courierID),
			)
		}
		return domain.ValidationResult{}, err
	}
	s.countValidation("ok")

	s.logger.Info("delivery validated",
		logx.String("event", "delivery_validated"),
		logx.Int64("delivery_id", result.DeliveryID),
		logx.Int64("courier_id", courierID),
		logx.Time("validated_at", result.ValidatedAt),
	)

	if escrow != nil && escrow.Status == domain.EscrowReleased {
		s.settle(ctx, *escrow)
	}
	if ann != nil {
		s.notify(ctx, ann.OwnerID, domain.NotifyDeliveryValidated,
			"Delivery completed", fmt.Sprintf("%q was delivered.", ann.Title))
	}
	s.notify(ctx, courierID, domain.NotifyDeliveryValidated,
		"Delivery validated", "The payment for your delivery was released.")

	return result, nil
}

// Code reveals the validation code of a live delivery to the announcement owner.
func (s *Service) Code(ctx context.Context, ownerID, deliveryID int64) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.deliveries.Get(ctx, deliveryID)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", fmt.Errorf("%w: delivery %d", apperr.ErrNotFound, deliveryID)
	}
	a, err := s.announcements.Get(ctx, d.AnnouncementID)
	if err != nil {
		return "", err
	}
	if a == nil || a.OwnerID != ownerID {
		return "", fmt.Errorf("%w: not the announcement owner", apperr.ErrForbidden)
	}
	if d.Status.Terminal() {
		return "", fmt.Errorf("%w: delivery is %s", apperr.ErrConflict, d.Status)
	}
	return d.ValidationCode, nil
}

// List returns the deliveries of one courier, optionally by status.
func (s *Service) List(ctx context.Context, courierID int64, status *domain.DeliveryStatus, limit, offset int) ([]domain.CourierDelivery, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, *status)
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.deliveries.List(ctx, domain.DeliveryFilter{
		CourierID: courierID,
		Status:    status,
		Limit:     clampLimit(limit),
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CourierDelivery{}
	}
	for i := range out {
		out[i].ValidationCode = ""
	}
	return out, nil
}

// ExpireStale cancels pending deliveries never started within the pending TTL.
// Their announcements go back on the board.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.cfg.PendingTTL)
	ids, err := s.listStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		err := s.expireOne(ctx, id)
		switch {
		case err == nil:
			expired++
		case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrNotFound):
			// raced with the courier
		default:
			return expired, err
		}
	}
	if expired > 0 {
		s.logger.Info("stale deliveries expired", logx.Int("count", expired), logx.Time("cutoff", cutoff))
	}
	return expired, nil
}

func (s *Service) listStale(ctx context.Context, cutoff time.Time) ([]int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.deliveries.ListStalePending(ctx, cutoff, staleBatch)
}

// expireOne runs under its own deadline so a long batch cannot starve the tail.
func (s *Service) expireOne(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.cancel(ctx, id, func(d *domain.CourierDelivery, _ *domain.CourierAnnouncement) (bool, error) {
		if d.Status != domain.DeliveryPending {
			return false, fmt.Errorf("%w: delivery is %s", apperr.ErrConflict, d.Status)
		}
		return false, nil
	})
	return err
}

func (s *Service) lockCourierDelivery(ctx context.Context, tx deliverytx.Repository, courierID, deliveryID int64) (*domain.CourierDelivery, error) {
	d, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.CourierID != courierID {
		return nil, fmt.Errorf("%w: delivery %d", apperr.ErrNotFound, deliveryID)
	}
	return d, nil
}

func (s *Service) settle(ctx context.Context, e domain.Escrow) {
	if s.settler == nil {
		return
	}
	if err := s.settler.Settle(ctx, e); err != nil {
		s.logger.Error("escrow settlement failed",
			logx.Int64("escrow_id", e.ID),
			logx.String("status", string(e.Status)),
			logx.Err(err),
		)
	}
}

func (s *Service) notify(ctx context.Context, userID int64, kind domain.NotificationKind, title, body string) {
	if s.notifier == nil {
		return
	}
	n := &domain.Notification{UserID: userID, Kind: kind, Title: title, Body: body}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("notification failed",
			logx.Int64("user_id", userID),
			logx.String("kind", string(kind)),
			logx.Err(err),
		)
	}
}

func (s *Service) countValidation(outcome string) {
	if s.validations != nil {
		s.validations.WithLabelValues(outcome).Inc()
	}
}
