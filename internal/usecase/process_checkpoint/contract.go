package process_checkpoint

import (
	"context"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByTokenOrCode(ctx context.Context, key string) (*domain.Reservation, error)
	UpdateStateIf(ctx context.Context, id int64, from, to domain.ReservationState, checkedInAt, checkedOutAt *time.Time) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByDNIForUpdate(ctx context.Context, dni string) (*domain.User, error)
	ApplyStrike(ctx context.Context, dni string, now time.Time, strikeLimit int, banFor time.Duration) (*domain.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс бизнес-метрик (опционален)
type Metrics interface {
	IncCheckpoint(result string)
	IncStrikeApplied()
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
