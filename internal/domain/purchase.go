package domain

import "time"

// PurchaseStatus is the state of an international purchase request.
type PurchaseStatus string

// List of purchase statuses
const (
	PurchaseRequested PurchaseStatus = "requested"
	PurchaseAccepted  PurchaseStatus = "accepted"
	PurchaseDelivered PurchaseStatus = "delivered"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// InternationalPurchase asks a traveling courier to buy a product abroad.
type InternationalPurchase struct {
	ID              int64          `json:"id"`
	Reference       string         `json:"reference"`
	ClientID        int64          `json:"client_id"`
	ProductName     string         `json:"product_name"`
	ProductURL      string         `json:"product_url"`
	Country         string         `json:"country"`
	Quantity        int            `json:"quantity"`
	MaxPriceCents   int64          `json:"max_price_cents"`
	DeliveryAddress string         `json:"delivery_address"`
	Status          PurchaseStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
