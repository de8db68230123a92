package auth

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/users"
)

// RegisterRequest HTTP request model регистрации
type RegisterRequest struct {
	DNI      string `json:"dni"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest HTTP request model входа
type LoginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

// ForgotRequest HTTP request model запроса OTP
type ForgotRequest struct {
	DNI   string `json:"dni"`
	Email string `json:"email"`
}

// VerifyOTPRequest HTTP request model проверки OTP
type VerifyOTPRequest struct {
	DNI  string `json:"dni"`
	Code string `json:"code"`
}

// ResetPasswordRequest HTTP request model сброса пароля
type ResetPasswordRequest struct {
	DNI         string `json:"dni"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// UserResponse HTTP-представление пользователя
type UserResponse struct {
	DNI         string `json:"dni"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Strikes     int    `json:"strikes"`
	BannedUntil string `json:"bannedUntil,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// LoginResponse HTTP-ответ входа
type LoginResponse struct {
	Token       string `json:"token"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Strikes     int    `json:"strikes"`
	BannedUntil string `json:"bannedUntil,omitempty"`
}

// MessageResponse нейтральный ответ для операций без полезной нагрузки
type MessageResponse struct {
	Message string `json:"message"`
}

// FromDomainUser конвертирует доменного пользователя в HTTP response
func FromDomainUser(u *domain.User) *UserResponse {
	out := &UserResponse{
		DNI:     u.DNI,
		Email:   u.Email,
		Name:    u.Name,
		Role:    string(u.Role),
		Strikes: u.Strikes,
	}
	if u.BannedUntil != nil {
		out.BannedUntil = u.BannedUntil.Format(domain.DateTimeFormat)
	}
	if !u.CreatedAt.IsZero() {
		out.CreatedAt = u.CreatedAt.Format(domain.DateTimeFormat)
	}
	return out
}

// FromLoginResult конвертирует результат входа в HTTP response
func FromLoginResult(result *users.LoginResult) *LoginResponse {
	out := &LoginResponse{
		Token:   result.Token,
		Role:    string(result.Role),
		Name:    result.Name,
		Strikes: result.Strikes,
	}
	if result.BannedUntil != nil {
		out.BannedUntil = result.BannedUntil.Format(domain.DateTimeFormat)
	}
	return out
}
