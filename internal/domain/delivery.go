package domain

import "time"

// CourierAnnouncement is a delivery request published by a client or a merchant.
type CourierAnnouncement struct {
	ID            int64
	OwnerID       int64
	Title         string
	FromAddress   string
	ToAddress     string
	PriceCents    int64
	InsuranceTier InsuranceTierID
	PaymentRef    string
	Deadline      time.Time
	Status        AnnouncementStatus
	CreatedAt     time.Time
}

// CourierDelivery is an announcement accepted by a courier.
type CourierDelivery struct {
	ID             int64
	AnnouncementID int64
	CourierID      int64
	Status         DeliveryStatus
	ValidationCode string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ValidatedAt    *time.Time
}

// DeliveryFilter narrows a courier delivery listing.
type DeliveryFilter struct {
	CourierID int64
	Status    *DeliveryStatus
	Limit     int
	Offset    int
}

// ValidationResult is returned after a successful code check.
type ValidationResult struct {
	DeliveryID  int64
	Status      DeliveryStatus
	ValidatedAt time.Time
	Escrow      EscrowStatus
}
