package subpay

import "fmt"

// PaymentError classifies a payment failure so callers can branch on
// the category instead of substring-matching message text.
type PaymentError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes surfaced in PaymentResult.ErrorCode.
const (
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeInvalidSignature    = "invalid_signature"
	ErrCodeInsufficientGas     = "insufficient_gas"
	ErrCodeInsufficientBalance = "insufficient_balance"
	ErrCodeTransferFailed      = "transfer_failed"
	ErrCodeGatewayFailed       = "gateway_failed"
	ErrCodePaymentInProgress   = "payment_in_progress"
	ErrCodeInternal            = "internal_error"
)

// NewPaymentError creates a new payment error.
func NewPaymentError(code, message string, details map[string]interface{}) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// failure builds the PaymentResult for a classified business failure.
func failure(code, message string) PaymentResult {
	return PaymentResult{
		Success:   false,
		ErrorCode: code,
		Error:     message,
	}
}
