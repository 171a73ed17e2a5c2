package domain

import "time"

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Rank orders the statuses. Transitions only move forward; stock is
// decremented exactly once, on the first step past Processing.
func (s Status) Rank() int {
	switch s {
	case StatusShipped:
		return 1
	case StatusDelivered:
		return 2
	}
	return 0
}

// Line is one ordered product. PriceCents is the catalog price at order
// creation, recorded server-side; client-submitted prices are never stored.
type Line struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

type ShippingInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type PaymentInfo struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Status string `json:"status"`
}

// Order is created once at checkout; the line list is immutable afterwards
// and only the status (and payment status) can change.
type Order struct {
	ID          string
	UserID      string
	Lines       []Line
	Shipping    ShippingInfo
	Payment     PaymentInfo
	TotalCents  int64
	Status      Status
	CreatedAt   time.Time
	DeliveredAt *time.Time
}

func NewOrder(id, userID string, lines []Line, shipping ShippingInfo, payment PaymentInfo) Order {
	var total int64
	for _, l := range lines {
		total += l.PriceCents * int64(l.Quantity)
	}
	return Order{
		ID:         id,
		UserID:     userID,
		Lines:      lines,
		Shipping:   shipping,
		Payment:    payment,
		TotalCents: total,
		Status:     StatusProcessing,
		CreatedAt:  time.Now().UTC(),
	}
}
