package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/authtoken"
)

const (
	msgMissingToken = "se requiere token de acceso"
	msgInvalidToken = "token inválido o expirado"
	msgAdminOnly    = "se requiere rol de administrador"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Identity аутентифицированный вызывающий
type Identity struct {
	DNI  string
	Role domain.Role
}

// IsAdmin сообщает, является ли вызывающий администратором
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth проверяет Bearer-токен и кладёт Identity в контекст запроса
func Auth(secret string, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := authtoken.Parse(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("Auth: rejected token: %v", err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			identity := Identity{DNI: claims.DNI, Role: domain.Role(claims.Role)}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, identity)))
		})
	}
}

// RequireAdmin пропускает только администраторов. Вешается после Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext достает аутентифицированного вызывающего из контекста
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(claimsKey).(Identity)
	return identity, ok
}
