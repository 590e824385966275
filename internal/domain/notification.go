package domain

import "time"

// NotificationKind classifies a notification.
type NotificationKind string

// List of notification kinds
const (
	NotifyDeliveryAccepted  NotificationKind = "delivery_accepted"
	NotifyDeliveryStarted   NotificationKind = "delivery_started"
	NotifyDeliveryValidated NotificationKind = "delivery_validated"
	NotifyDeliveryCancelled NotificationKind = "delivery_cancelled"
	NotifyPayment           NotificationKind = "payment"
	NotifyAccount           NotificationKind = "account"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Email is an outgoing e-mail job.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Locale   string `json:"locale"`
	Data     any    `json:"data,omitempty"`
}
