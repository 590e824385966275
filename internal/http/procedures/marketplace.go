package procedures

import (
	"context"
	"time"

	"ecodeli/internal/domain"
	"ecodeli/internal/rpc"
	"ecodeli/internal/service/merchant"
	"ecodeli/internal/service/provider"
	"ecodeli/internal/service/purchase"
	"ecodeli/internal/service/subscription"
)

type purchaseCreateIn struct {
	ProductName     string `json:"product_name" validate:"required,max=200"`
	ProductURL      string `json:"product_url" validate:"required,url,max=2048"`
	Country         string `json:"country" validate:"required,iso3166_1_alpha2"`
	Quantity        int    `json:"quantity" validate:"required,min=1,max=20"`
	MaxPriceCents   int64  `json:"max_price_cents" validate:"required,gt=0"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=300"`
}

type subscriptionChangeIn struct {
	Plan string `json:"plan" validate:"required,oneof=free starter premium"`
}

type scheduleSetIn struct {
	Weekday *int   `json:"weekday" validate:"required,min=0,max=6"`
	Start   string `json:"start" validate:"required,hhmm"`
	End     string `json:"end" validate:"required,hhmm"`
}

type providerIDIn struct {
	ProviderID int64 `json:"provider_id" validate:"required,gt=0"`
}

type evaluationCreateIn struct {
	ProviderID int64  `json:"provider_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=500"`
}

type transferBookIn struct {
	Airport      string    `json:"airport" validate:"required,iata"`
	FlightNumber string    `json:"flight_number" validate:"required,max=10"`
	PickupAt     time.Time `json:"pickup_at" validate:"required"`
	Passengers   int       `json:"passengers" validate:"required,min=1,max=8"`
	Direction    string    `json:"direction" validate:"required,oneof=arrival departure"`
}

type cartDropCreateIn struct {
	CustomerName string   `json:"customer_name" validate:"required,max=200"`
	Address      string   `json:"address" validate:"required,max=300"`
	TimeSlot     string   `json:"time_slot" validate:"required,max=50"`
	Items        []string `json:"items" validate:"required,min=1,max=50,dive,required,max=200"`
}

// Purchase returns the international purchase procedures.
func Purchase(uc purchaseUsecase) []rpc.Endpoint {
	clients := rpc.Roles(domain.RoleClient)
	return []rpc.Endpoint{
		rpc.Procedure[purchaseCreateIn, *domain.InternationalPurchase]{
			Name:        "purchase.create",
			Description: "Ask a traveling courier to buy a product abroad",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, in purchaseCreateIn) (*domain.InternationalPurchase, error) {
				return uc.Create(ctx, c.UserID(), purchase.Input{
					ProductName:     in.ProductName,
					ProductURL:      in.ProductURL,
					Country:         in.Country,
					Quantity:        in.Quantity,
					MaxPriceCents:   in.MaxPriceCents,
					DeliveryAddress: in.DeliveryAddress,
				})
			},
		},
		rpc.Procedure[struct{}, []domain.InternationalPurchase]{
			Name:        "purchase.list",
			Description: "The caller's purchase requests",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, _ struct{}) ([]domain.InternationalPurchase, error) {
				return uc.List(ctx, c.UserID())
			},
		},
	}
}

// Subscription returns the plan procedures.
func Subscription(uc subscriptionUsecase) []rpc.Endpoint {
	clients := rpc.Roles(domain.RoleClient)
	return []rpc.Endpoint{
		rpc.Procedure[struct{}, []domain.PlanTerms]{
			Name:        "subscription.plans",
			Description: "Available plans and their terms",
			Access:      rpc.Public,
			Handle: func(context.Context, rpc.Caller, struct{}) ([]domain.PlanTerms, error) {
				return subscription.Plans(), nil
			},
		},
		rpc.Procedure[struct{}, subscription.View]{
			Name:        "subscription.get",
			Description: "The caller's current plan",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, _ struct{}) (subscription.View, error) {
				return uc.Get(ctx, c.UserID())
			},
		},
		rpc.Procedure[subscriptionChangeIn, subscription.View]{
			Name:        "subscription.change",
			Description: "Switch the caller's plan",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, in subscriptionChangeIn) (subscription.View, error) {
				return uc.Change(ctx, c.UserID(), domain.SubscriptionPlan(in.Plan))
			},
		},
	}
}

// Provider returns the schedule, evaluation and airport transfer procedures.
func Provider(uc providerUsecase) []rpc.Endpoint {
	clients := rpc.Roles(domain.RoleClient)
	return []rpc.Endpoint{
		rpc.Procedure[scheduleSetIn, *domain.Schedule]{
			Name:        "schedule.set",
			Description: "Set the caller's availability for one weekday",
			Access:      rpc.Roles(domain.RoleProvider),
			Handle: func(ctx context.Context, c rpc.Caller, in scheduleSetIn) (*domain.Schedule, error) {
				return uc.SetSchedule(ctx, c.UserID(), *in.Weekday, in.Start, in.End)
			},
		},
		rpc.Procedure[providerIDIn, []domain.Schedule]{
			Name:        "schedule.list",
			Description: "Weekly availability of a provider",
			Access:      rpc.Roles(domain.RoleProvider, domain.RoleClient),
			Handle: func(ctx context.Context, _ rpc.Caller, in providerIDIn) ([]domain.Schedule, error) {
				return uc.Schedules(ctx, in.ProviderID)
			},
		},
		rpc.Procedure[evaluationCreateIn, *domain.ServiceEvaluation]{
			Name:        "evaluation.create",
			Description: "Rate a service provider",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, in evaluationCreateIn) (*domain.ServiceEvaluation, error) {
				return uc.Evaluate(ctx, c.UserID(), in.ProviderID, in.Rating, in.Comment)
			},
		},
		rpc.Procedure[providerIDIn, domain.EvaluationSummary]{
			Name:        "evaluation.summary",
			Description: "Rating count and average of a provider",
			Access:      rpc.Public,
			Handle: func(ctx context.Context, _ rpc.Caller, in providerIDIn) (domain.EvaluationSummary, error) {
				return uc.Summary(ctx, in.ProviderID)
			},
		},
		rpc.Procedure[transferBookIn, *domain.AirportTransfer]{
			Name:        "transfer.book",
			Description: "Book a ride to or from an airport",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, in transferBookIn) (*domain.AirportTransfer, error) {
				return uc.BookTransfer(ctx, c.UserID(), provider.TransferInput{
					Airport:      in.Airport,
					FlightNumber: in.FlightNumber,
					PickupAt:     in.PickupAt,
					Passengers:   in.Passengers,
					Direction:    domain.TransferDirection(in.Direction),
				})
			},
		},
		rpc.Procedure[struct{}, []domain.AirportTransfer]{
			Name:        "transfer.list",
			Description: "The caller's airport transfers",
			Access:      clients,
			Handle: func(ctx context.Context, c rpc.Caller, _ struct{}) ([]domain.AirportTransfer, error) {
				return uc.Transfers(ctx, c.UserID())
			},
		},
	}
}

// Merchant returns the cart drop procedures.
func Merchant(uc merchantUsecase) []rpc.Endpoint {
	merchants := rpc.Roles(domain.RoleMerchant)
	return []rpc.Endpoint{
		rpc.Procedure[cartDropCreateIn, *domain.CartDrop]{
			Name:        "cartdrop.create",
			Description: "Have an in-store purchase delivered to the customer",
			Access:      merchants,
			Handle: func(ctx context.Context, c rpc.Caller, in cartDropCreateIn) (*domain.CartDrop, error) {
				return uc.CreateCartDrop(ctx, c.UserID(), merchant.CartDropInput{
					CustomerName: in.CustomerName,
					Address:      in.Address,
					TimeSlot:     in.TimeSlot,
					Items:        in.Items,
				})
			},
		},
		rpc.Procedure[struct{}, []domain.CartDrop]{
			Name:        "cartdrop.list",
			Description: "The caller's cart drops",
			Access:      merchants,
			Handle: func(ctx context.Context, c rpc.Caller, _ struct{}) ([]domain.CartDrop, error) {
				return uc.CartDrops(ctx, c.UserID())
			},
		},
	}
}
