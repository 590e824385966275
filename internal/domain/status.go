package domain

// DeliveryStatus represents the lifecycle state of a courier delivery.
type DeliveryStatus string

// List of delivery statuses
const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryActive    DeliveryStatus = "active"
	DeliveryCompleted DeliveryStatus = "completed"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryPending, DeliveryActive, DeliveryCompleted, DeliveryCancelled,
}

// forward-only transitions
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending: {DeliveryActive, DeliveryCancelled},
	DeliveryActive:  {DeliveryCompleted, DeliveryCancelled},
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a delivery may move from s to next.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, v := range deliveryTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s DeliveryStatus) Terminal() bool {
	return len(deliveryTransitions[s]) == 0
}

// AnnouncementStatus represents whether an announcement can still be accepted.
type AnnouncementStatus string

// List of announcement statuses
const (
	AnnouncementOpen   AnnouncementStatus = "open"
	AnnouncementTaken  AnnouncementStatus = "taken"
	AnnouncementClosed AnnouncementStatus = "closed"
)

// EscrowStatus represents the state of held funds.
type EscrowStatus string

// List of escrow statuses
const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
	EscrowFailed   EscrowStatus = "failed"
)

// Settled reports whether the escrow can no longer change.
func (s EscrowStatus) Settled() bool {
	return s == EscrowReleased || s == EscrowRefunded
}
