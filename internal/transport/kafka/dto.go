package kafka

import (
	"strings"
	"time"

	"ecodeli/internal/service/payment"
)

// EventDTO is the wire form of a payment provider event
type EventDTO struct {
	Type        string    `json:"type"`
	PaymentID   string    `json:"payment_id"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ToDomain converts EventDTO to payment.Event
func ToDomain(dto EventDTO) payment.Event {
	return payment.Event{
		Type:        strings.ToLower(strings.TrimSpace(dto.Type)),
		PaymentID:   strings.TrimSpace(dto.PaymentID),
		AmountCents: dto.AmountCents,
		OccurredAt:  dto.OccurredAt,
	}
}
