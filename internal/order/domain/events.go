package domain

// OrderCreated is published through the outbox when checkout commits.
type OrderCreated struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	TotalCents int64  `json:"total_cents"`
	Method     string `json:"method"`
	Lines      []Line `json:"lines"`
}

// OrderStatusUpdated is published when an admin moves an order forward.
type OrderStatusUpdated struct {
	OrderID string `json:"order_id"`
	Status  Status `json:"status"`
}
