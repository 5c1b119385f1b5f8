package client

import (
	"context"
	"errors"
	"github.com/imroc/req/v3"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"net"
	"time"
)

// Paystack клиент API платежного провайдера Paystack.
type Paystack struct {
	req *req.Client
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Amount      int64              `json:"amount"`
	Email       string             `json:"email"`
	Reference   string             `json:"reference"`
	CallbackURL string             `json:"callback_url,omitempty"`
	Metadata    initializeMetadata `json:"metadata"`
}

type initializeMetadata struct {
	OrderID       string `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// statusMap содержит окончательные статусы транзакции. Остальные статусы
// (abandoned, ongoing, pending, processing, queued) соответствуют
// entity.PaymentStatusPending: покупатель еще может завершить оплату.
var statusMap = map[string]entity.PaymentStatus{
	"success":  entity.PaymentStatusCompleted,
	"failed":   entity.PaymentStatusFailed,
	"reversed": entity.PaymentStatusFailed,
}

func NewPaystack(addr, secretKey string, timeout time.Duration) *Paystack {
	return &Paystack{
		req: req.C().
			SetBaseURL(addr).
			SetTimeout(timeout).
			SetCommonBearerAuthToken(secretKey).
			SetCommonHeader("Accept", "application/json"),
	}
}

// Initialize создает транзакцию у провайдера и возвращает ссылку на страницу оплаты.
// Сумма передается в песевах.
func (c *Paystack) Initialize(ctx context.Context, charge entity.ChargeRequest) (entity.PaymentInit, error) {
	var (
		result    envelope[initializeData]
		errResult envelope[any]
	)
	resp, err := c.req.R().
		SetContext(ctx).
		SetBody(&initializeRequest{
			Amount:      charge.Amount,
			Email:       charge.Email,
			Reference:   charge.Reference,
			CallbackURL: charge.CallbackURL,
			Metadata: initializeMetadata{
				OrderID:       charge.OrderID.String(),
				CustomerName:  charge.CustomerName,
				CustomerPhone: charge.CustomerPhone,
			},
		}).
		SetSuccessResult(&result).
		SetErrorResult(&errResult).
		Post("/transaction/initialize")
	if err != nil {
		return entity.PaymentInit{}, requestError("initialize", err)
	}

	if !resp.IsSuccessState() {
		return entity.PaymentInit{}, &inerr.ProviderError{
			Op:         "initialize",
			StatusCode: resp.StatusCode,
			Message:    errResult.Message,
		}
	}

	if !result.Status {
		return entity.PaymentInit{}, &inerr.ProviderError{
			Op:         "initialize",
			StatusCode: resp.StatusCode,
			Message:    result.Message,
		}
	}

	return entity.PaymentInit{
		Reference:        result.Data.Reference,
		AuthorizationURL: result.Data.AuthorizationURL,
		AccessCode:       result.Data.AccessCode,
	}, nil
}

// Verify запрашивает у провайдера состояние транзакции по ссылке.
func (c *Paystack) Verify(ctx context.Context, reference string) (entity.ProviderTransaction, error) {
	var (
		result    envelope[verifyData]
		errResult envelope[any]
	)
	resp, err := c.req.R().
		SetContext(ctx).
		SetPathParam("reference", reference).
		SetSuccessResult(&result).
		SetErrorResult(&errResult).
		Get("/transaction/verify/{reference}")
	if err != nil {
		return entity.ProviderTransaction{}, requestError("verify", err)
	}

	if !resp.IsSuccessState() {
		return entity.ProviderTransaction{}, &inerr.ProviderError{
			Op:         "verify",
			StatusCode: resp.StatusCode,
			Message:    errResult.Message,
		}
	}

	status, ok := statusMap[result.Data.Status]
	if !ok {
		status = entity.PaymentStatusPending
	}

	return entity.ProviderTransaction{
		Status: status,
		Amount: result.Data.Amount,
	}, nil
}

func requestError(op string, err error) error {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())

	return &inerr.ProviderError{
		Op:      op,
		Timeout: timeout,
		Err:     err,
	}
}
