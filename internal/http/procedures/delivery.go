package procedures

import (
	"context"
	"time"

	"ecodeli/internal/domain"
	"ecodeli/internal/rpc"
	"ecodeli/internal/service/delivery"
)

type announcementCreateIn struct {
	Title         string    `json:"title" validate:"required,max=200"`
	FromAddress   string    `json:"from_address" validate:"required,max=300"`
	ToAddress     string    `json:"to_address" validate:"required,max=300"`
	PriceCents    int64     `json:"price_cents" validate:"required,gt=0"`
	InsuranceTier string    `json:"insurance_tier" validate:"omitempty,oneof=none basic premium max"`
	PaymentRef    string    `json:"payment_ref" validate:"omitempty,max=255"`
	Deadline      time.Time `json:"deadline" validate:"required"`
}

type pageIn struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `json:"offset" validate:"omitempty,min=0"`
}

type idIn struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type announcementIDIn struct {
	AnnouncementID int64 `json:"announcement_id" validate:"required,gt=0"`
}

type deliveryIDIn struct {
	DeliveryID int64 `json:"delivery_id" validate:"required,gt=0"`
}

type deliveryValidateIn struct {
	DeliveryID int64  `json:"delivery_id" validate:"required,gt=0"`
	Code       string `json:"code" validate:"required,len=6"`
}

type deliveryListIn struct {
	Status string `json:"status" validate:"omitempty,oneof=pending active completed cancelled"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `json:"offset" validate:"omitempty,min=0"`
}

type announcementOut struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Title         string    `json:"title"`
	FromAddress   string    `json:"from_address"`
	ToAddress     string    `json:"to_address"`
	PriceCents    int64     `json:"price_cents"`
	InsuranceTier string    `json:"insurance_tier"`
	Deadline      time.Time `json:"deadline"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type deliveryOut struct {
	ID             int64      `json:"id"`
	AnnouncementID int64      `json:"announcement_id"`
	CourierID      int64      `json:"courier_id"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ValidatedAt    *time.Time `json:"validated_at,omitempty"`
}

type validationOut struct {
	DeliveryID  int64     `json:"delivery_id"`
	Status      string    `json:"status"`
	ValidatedAt time.Time `json:"validated_at"`
	Escrow      string    `json:"escrow_status,omitempty"`
}

type codeOut struct {
	DeliveryID int64  `json:"delivery_id"`
	Code       string `json:"code"`
}

func toAnnouncementOut(a *domain.CourierAnnouncement) announcementOut {
	return announcementOut{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		Title:         a.Title,
		FromAddress:   a.FromAddress,
		ToAddress:     a.ToAddress,
		PriceCents:    a.PriceCents,
		InsuranceTier: string(a.InsuranceTier),
		Deadline:      a.Deadline,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}
}

func toAnnouncementsOut(list []domain.CourierAnnouncement) []announcementOut {
	out := make([]announcementOut, 0, len(list))
	for i := range list {
		out = append(out, toAnnouncementOut(&list[i]))
	}
	return out
}

// the validation code is never part of a delivery payload
func toDeliveryOut(d *domain.CourierDelivery) deliveryOut {
	return deliveryOut{
		ID:             d.ID,
		AnnouncementID: d.AnnouncementID,
		CourierID:      d.CourierID,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		ValidatedAt:    d.ValidatedAt,
	}
}

// Delivery returns the announcement and courier delivery procedures.
func Delivery(uc deliveryUsecase) []rpc.Endpoint {
	owners := rpc.Roles(domain.RoleClient, domain.RoleMerchant)
	couriers := rpc.Roles(domain.RoleCourier)

	return []rpc.Endpoint{
		rpc.Procedure[announcementCreateIn, announcementOut]{
			Name:        "announcement.create",
			Description: "Publish a delivery request",
			Access:      owners,
			Handle: func(ctx context.Context, c rpc.Caller, in announcementCreateIn) (announcementOut, error) {
				a, err := uc.CreateAnnouncement(ctx, c.UserID(), delivery.AnnouncementInput{
					Title:         in.Title,
					FromAddress:   in.FromAddress,
					ToAddress:     in.ToAddress,
					PriceCents:    in.PriceCents,
					InsuranceTier: domain.InsuranceTierID(in.InsuranceTier),
					PaymentRef:    in.PaymentRef,
					Deadline:      in.Deadline,
				})
				if err != nil {
					return announcementOut{}, err
				}
				return toAnnouncementOut(a), nil
			},
		},
		rpc.Procedure[pageIn, []announcementOut]{
			Name:        "announcement.list",
			Description: "Open announcements a courier can accept",
			Access:      couriers,
			Handle: func(ctx context.Context, _ rpc.Caller, in pageIn) ([]announcementOut, error) {
				list, err := uc.ListOpenAnnouncements(ctx, in.Limit, in.Offset)
				if err != nil {
					return nil, err
				}
				return toAnnouncementsOut(list), nil
			},
		},
		rpc.Procedure[idIn, announcementOut]{
			Name:        "announcement.get",
			Description: "One announcement",
			Access:      rpc.Authenticated,
			Handle: func(ctx context.Context, _ rpc.Caller, in idIn) (announcementOut, error) {
				a, err := uc.GetAnnouncement(ctx, in.ID)
				if err != nil {
					return announcementOut{}, err
				}
				return toAnnouncementOut(a), nil
			},
		},
		rpc.Procedure[struct{}, []announcementOut]{
			Name:        "announcement.mine",
			Description: "Announcements published by the caller",
			Access:      owners,
			Handle: func(ctx context.Context, c rpc.Caller, _ struct{}) ([]announcementOut, error) {
				list, err := uc.ListOwnAnnouncements(ctx, c.UserID())
				if err != nil {
					return nil, err
				}
				return toAnnouncementsOut(list), nil
			},
		},
		rpc.Procedure[announcementIDIn, deliveryOut]{
			Name:        "delivery.accept",
			Description: "Take an open announcement; funds are held in escrow",
			Access:      couriers,
			Handle: func(ctx context.Context, c rpc.Caller, in announcementIDIn) (deliveryOut, error) {
				d, err := uc.Accept(ctx, c.UserID(), in.AnnouncementID)
				if err != nil {
					return deliveryOut{}, err
				}
				return toDeliveryOut(d), nil
			},
		},
		rpc.Procedure[deliveryIDIn, deliveryOut]{
			Name:        "delivery.start",
			Description: "Mark a pending delivery as picked up",
			Access:      couriers,
			Handle: func(ctx context.Context, c rpc.Caller, in deliveryIDIn) (deliveryOut, error) {
				d, err := uc.Start(ctx, c.UserID(), in.DeliveryID)
				if err != nil {
					return deliveryOut{}, err
				}
				return toDeliveryOut(d), nil
			},
		},
		rpc.Procedure[deliveryIDIn, deliveryOut]{
			Name:        "delivery.cancel",
			Description: "Cancel a live delivery as its courier or the announcement owner",
			Access:      rpc.Authenticated,
			Handle: func(ctx context.Context, c rpc.Caller, in deliveryIDIn) (deliveryOut, error) {
				d, err := uc.Cancel(ctx, c.UserID(), in.DeliveryID)
				if err != nil {
					return deliveryOut{}, err
				}
				return toDeliveryOut(d), nil
			},
		},
		rpc.Procedure[deliveryValidateIn, validationOut]{
			Name:        "delivery.validate",
			Description: "Complete a delivery with the code handed over by the recipient",
			Access:      couriers,
			Handle: func(ctx context.Context, c rpc.Caller, in deliveryValidateIn) (validationOut, error) {
				res, err := uc.Validate(ctx, c.UserID(), in.DeliveryID, in.Code)
				if err != nil {
					return validationOut{}, err
				}
				return validationOut{
					DeliveryID:  res.DeliveryID,
					Status:      string(res.Status),
					ValidatedAt: res.ValidatedAt,
					Escrow:      string(res.Escrow),
				}, nil
			},
		},
		rpc.Procedure[deliveryIDIn, codeOut]{
			Name:        "delivery.code",
			Description: "Validation code of a live delivery, for the announcement owner",
			Access:      owners,
			Handle: func(ctx context.Context, c rpc.Caller, in deliveryIDIn) (codeOut, error) {
				code, err := uc.Code(ctx, c.UserID(), in.DeliveryID)
				if err != nil {
					return codeOut{}, err
				}
				return codeOut{DeliveryID: in.DeliveryID, Code: code}, nil
			},
		},
		rpc.Procedure[deliveryListIn, []deliveryOut]{
			Name:        "delivery.list",
			Description: "The caller's deliveries",
			Access:      couriers,
			Handle: func(ctx context.Context, c rpc.Caller, in deliveryListIn) ([]deliveryOut, error) {
				var status *domain.DeliveryStatus
				if in.Status != "" {
					st := domain.DeliveryStatus(in.Status)
					status = &st
				}
				list, err := uc.List(ctx, c.UserID(), status, in.Limit, in.Offset)
				if err != nil {
					return nil, err
				}
				out := make([]deliveryOut, 0, len(list))
				for i := range list {
					out = append(out, toDeliveryOut(&list[i]))
				}
				return out, nil
			},
		},
	}
}
