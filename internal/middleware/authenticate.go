package middleware

import (
	"net/http"
	"strings"
)

type Authenticator interface {
	Authenticate(signed string, r *http.Request) (*http.Request, error)
}

// LegacyTokenHeader заголовок, в котором токен передавался до перехода на Authorization.
const LegacyTokenHeader = "x-auth-token"

// Authenticate возвращает middleware для проверки токена администратора. Токен
// принимается из заголовка Authorization (с префиксом Bearer или без него) либо
// из заголовка x-auth-token.
func Authenticate(a Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, err := a.Authenticate(token(r), r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"message":"Token is not valid"}`))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}

		return h
	}

	return r.Header.Get(LegacyTokenHeader)
}
