package users

import (
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

// RegisterInput входные данные регистрации
type RegisterInput struct {
	DNI      string
	Email    string
	Password string
}

// LoginResult результат входа. Активный бан не мешает входу: профиль
// и отмена резерваций доступны забаненному пользователю, новые
// резервации отклонит контроль допуска.
type LoginResult struct {
	Token       string
	Role        domain.Role
	Name        string
	Strikes     int
	BannedUntil *time.Time
}

// AuthOptions параметры выпуска токенов и восстановления пароля
type AuthOptions struct {
	Secret    string
	TokenTTL  time.Duration
	OTPExpiry time.Duration
}
