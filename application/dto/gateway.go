package dto

// Payment gateway callback statuses
const (
	GatewayStatusSucceeded = "succeeded"
	GatewayStatusFailed    = "failed"
	GatewayStatusCancelled = "cancelled"
)

// PaymentGatewayCallbackDTO is the outcome of an online payment as reported by the processor
type PaymentGatewayCallbackDTO struct {
	PaymentID     int64  `json:"payment_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Processor     string `json:"processor"`
	Reason        string `json:"reason,omitempty"`
}
