package models

// DeliveryOutcome is the webhook response for a delivered message
type DeliveryOutcome struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
	Delivered  bool   `json:"delivered"`
}
