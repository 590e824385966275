package procedures

import (
	"context"

	"ecodeli/internal/domain"
	"ecodeli/internal/service/delivery"
	"ecodeli/internal/service/merchant"
	"ecodeli/internal/service/provider"
	"ecodeli/internal/service/purchase"
	"ecodeli/internal/service/subscription"
)

type deliveryUsecase interface {
	CreateAnnouncement(ctx context.Context, ownerID int64, in delivery.AnnouncementInput) (*domain.CourierAnnouncement, error)
	GetAnnouncement(ctx context.Context, id int64) (*domain.CourierAnnouncement, error)
	ListOpenAnnouncements(ctx context.Context, limit, offset int) ([]domain.CourierAnnouncement, error)
	ListOwnAnnouncements(ctx context.Context, ownerID int64) ([]domain.CourierAnnouncement, error)
	Accept(ctx context.Context, courierID, announcementID int64) (*domain.CourierDelivery, error)
	Start(ctx context.Context, courierID, deliveryID int64) (*domain.CourierDelivery, error)
	Cancel(ctx context.Context, userID, deliveryID int64) (*domain.CourierDelivery, error)
	Validate(ctx context.Context, courierID, deliveryID int64, code string) (domain.ValidationResult, error)
	Code(ctx context.Context, ownerID, deliveryID int64) (string, error)
	List(ctx context.Context, courierID int64, status *domain.DeliveryStatus, limit, offset int) ([]domain.CourierDelivery, error)
}

type paymentUsecase interface {
	EscrowConfig() domain.EscrowConfig
	Status(ctx context.Context, userID int64, paymentID string) (domain.PaymentStatus, error)
}

type notificationUsecase interface {
	List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
}

type purchaseUsecase interface {
	Create(ctx context.Context, clientID int64, in purchase.Input) (*domain.InternationalPurchase, error)
	List(ctx context.Context, clientID int64) ([]domain.InternationalPurchase, error)
}

type subscriptionUsecase interface {
	Get(ctx context.Context, userID int64) (subscription.View, error)
	Change(ctx context.Context, userID int64, plan domain.SubscriptionPlan) (subscription.View, error)
}

type providerUsecase interface {
	SetSchedule(ctx context.Context, providerID int64, weekday int, start, end string) (*domain.Schedule, error)
	Schedules(ctx context.Context, providerID int64) ([]domain.Schedule, error)
	Evaluate(ctx context.Context, clientID, providerID int64, rating int, comment string) (*domain.ServiceEvaluation, error)
	Summary(ctx context.Context, providerID int64) (domain.EvaluationSummary, error)
	BookTransfer(ctx context.Context, clientID int64, in provider.TransferInput) (*domain.AirportTransfer, error)
	Transfers(ctx context.Context, clientID int64) ([]domain.AirportTransfer, error)
}

type merchantUsecase interface {
	CreateCartDrop(ctx context.Context, merchantID int64, in merchant.CartDropInput) (*domain.CartDrop, error)
	CartDrops(ctx context.Context, merchantID int64) ([]domain.CartDrop, error)
}
