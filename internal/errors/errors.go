package errors

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrPaymentNotPending  = errors.New("payment is not pending")
	ErrReferenceExists    = errors.New("payment reference exists")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStorage            = errors.New("storage error")
)

// ValidationError содержит сообщения об ошибках по каждому невалидному полю.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Fields))
}

// ProviderError ошибка обращения к платежному провайдеру. Timeout выставляется,
// если провайдер не ответил вовремя: результат операции в этом случае неизвестен.
type ProviderError struct {
	Op         string
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("payment provider %s: timeout", e.Op)
	case e.Err != nil:
		return fmt.Sprintf("payment provider %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("payment provider %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
