package security

import (
	"context"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
	"net/http"
	"time"
)

// Authenticator выдает и проверяет токены администратора. Токен подписывается
// HS256 и действует ttl с момента выдачи.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type adminContextKey string

const adminKey adminContextKey = "currentAdmin"

func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GrantToken создает подписанный токен для администратора.
func (a *Authenticator) GrantToken(_ context.Context, admin entity.Admin) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})

	return token.SignedString(a.secret)
}

// Authenticate проверяет подпись и срок действия токена и устанавливает данные
// администратора в контекст запроса. Если токен невалиден, возвращает ошибку
// errors.ErrUnauthenticated.
func (a *Authenticator) Authenticate(signed string, r *http.Request) (*http.Request, error) {
	if signed == "" {
		return r, inerr.ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		signed,
		claims,
		func(*jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return r, errors.Join(inerr.ErrUnauthenticated, err)
	}

	admin := entity.Admin{
		Username: claims.Username,
		Role:     claims.Role,
	}

	return r.WithContext(context.WithValue(r.Context(), adminKey, admin)), nil
}

// Admin возвращает аутентифицированного администратора из контекста запроса.
func (a *Authenticator) Admin(r *http.Request) (entity.Admin, error) {
	admin, ok := r.Context().Value(adminKey).(entity.Admin)
	if !ok {
		return entity.Admin{}, inerr.ErrUnauthenticated
	}

	return admin, nil
}
