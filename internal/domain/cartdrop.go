package domain

import "time"

// CartDropStatus is the state of a merchant cart drop.
type CartDropStatus string

// List of cart drop statuses
const (
	CartDropPending   CartDropStatus = "pending"
	CartDropScheduled CartDropStatus = "scheduled"
	CartDropDelivered CartDropStatus = "delivered"
	CartDropCancelled CartDropStatus = "cancelled"
)

// CartDrop is an in-store purchase a merchant has delivered to the customer's home.
type CartDrop struct {
	ID           int64          `json:"id"`
	MerchantID   int64          `json:"merchant_id"`
	CustomerName string         `json:"customer_name"`
	Address      string         `json:"address"`
	TimeSlot     string         `json:"time_slot"`
	Items        []string       `json:"items"`
	Status       CartDropStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MerchantOverview is returned by the merchant REST endpoint.
type MerchantOverview struct {
	MerchantID int64                    `json:"merchant_id"`
	Name       string                   `json:"name"`
	Email      string                   `json:"email"`
	CartDrops  map[CartDropStatus]int64 `json:"cart_drops"`
}
