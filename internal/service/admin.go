package service

import (
	"context"
	"crypto/subtle"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	inerr "github.com/ivanpodgorny/campusdelivery/internal/errors"
)

// Admin выполняет вход единственного администратора, учетные данные которого
// заданы в конфигурации. Пароль хранится только в виде хэша.
type Admin struct {
	username      string
	passwordHash  string
	hasher        Hasher
	tokenProvider TokenProvider
}

type Hasher interface {
	Compare(password, hash string) bool
}

type TokenProvider interface {
	GrantToken(ctx context.Context, admin entity.Admin) (string, error)
}

func NewAdmin(username, passwordHash string, h Hasher, p TokenProvider) *Admin {
	return &Admin{
		username:      username,
		passwordHash:  passwordHash,
		hasher:        h,
		tokenProvider: p,
	}
}

// Login проверяет имя пользователя и совпадение хэша пароля и выдает токен
// администратора. При несовпадении возвращает ошибку errors.ErrInvalidCredentials.
func (s *Admin) Login(ctx context.Context, username, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return "", inerr.ErrInvalidCredentials
	}

	if !s.hasher.Compare(password, s.passwordHash) {
		return "", inerr.ErrInvalidCredentials
	}

	return s.tokenProvider.GrantToken(ctx, entity.Admin{
		Username: s.username,
		Role:     entity.RoleAdministrator,
	})
}
