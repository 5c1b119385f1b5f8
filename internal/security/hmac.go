package security

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
)

// WebhookSigner проверяет подпись уведомлений платежного провайдера:
// HMAC-SHA512 от тела запроса на секретном ключе, в шестнадцатеричном виде.
type WebhookSigner struct {
	key []byte
}

func NewWebhookSigner(key string) *WebhookSigner {
	return &WebhookSigner{key: []byte(key)}
}

func (s *WebhookSigner) Sign(body []byte) string {
	return hex.EncodeToString(s.signHMAC(body))
}

// Verify возвращает errors.ErrInvalidSignature, если подпись отсутствует
// или не совпадает с вычисленной.
func (s *WebhookSigner) Verify(body []byte, signature string) error {
	if signature == "" {
		return inerr.ErrInvalidSignature
	}

	sign, err := hex.DecodeString(signature)
	if err != nil {
		return inerr.ErrInvalidSignature
	}

	if !hmac.Equal(s.signHMAC(body), sign) {
		return inerr.ErrInvalidSignature
	}

	return nil
}

func (s *WebhookSigner) signHMAC(data []byte) []byte {
	h := hmac.New(sha512.New, s.key)
	h.Write(data)

	return h.Sum(nil)
}
