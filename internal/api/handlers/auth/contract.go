package auth

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/users"
)

type UsersService interface {
	Register(ctx context.Context, input *users.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, dni, password string) (*users.LoginResult, error)
	GetProfile(ctx context.Context, dni string) (*domain.User, error)
	ForgotPassword(ctx context.Context, dni, email string) error
	VerifyOTP(ctx context.Context, dni, otp string) error
	ResetPassword(ctx context.Context, dni, otp, newPassword string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
