package users

import (
	"context"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/integrations/identity"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByDNI(ctx context.Context, dni string) (*domain.User, error)
	GetByDNIAndEmail(ctx context.Context, dni, email string) (*domain.User, error)
	SetRecoveryToken(ctx context.Context, dni, token string, expires time.Time) error
	ResetPassword(ctx context.Context, dni, passwordHash string) error
}

// IdentityClient интерфейс проверки DNI во внешнем реестре
type IdentityClient interface {
	Enabled() bool
	VerifyDNI(ctx context.Context, dni string) (*identity.Person, error)
}

// Mailer интерфейс отправки уведомлений
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее гражданское время
func (p *RealTimeProvider) Now() time.Time {
	return civiltime.Now()
}
