package domain

import "time"

// Schedule is one weekly availability slot of a service provider.
type Schedule struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"provider_id"`
	Weekday    int    `json:"weekday"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// ServiceEvaluation is a client rating of a service provider.
type ServiceEvaluation struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id"`
	ClientID   int64     `json:"client_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// EvaluationSummary aggregates the ratings of a provider.
type EvaluationSummary struct {
	ProviderID int64   `json:"provider_id"`
	Count      int64   `json:"count"`
	Average    float64 `json:"average"`
}

// TransferDirection tells whether the client is picked up at or driven to the airport.
type TransferDirection string

// List of transfer directions
const (
	TransferArrival   TransferDirection = "arrival"
	TransferDeparture TransferDirection = "departure"
)

// AirportTransfer is a booked ride to or from an airport.
type AirportTransfer struct {
	ID           int64             `json:"id"`
	ClientID     int64             `json:"client_id"`
	Airport      string            `json:"airport"`
	FlightNumber string            `json:"flight_number"`
	PickupAt     time.Time         `json:"pickup_at"`
	Passengers   int               `json:"passengers"`
	Direction    TransferDirection `json:"direction"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}
