package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	userstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/user"
	"github.com/m04kA/BNP-ReservationService/internal/integrations/identity"
	"github.com/m04kA/BNP-ReservationService/internal/integrations/mailer"
	"github.com/m04kA/BNP-ReservationService/pkg/authtoken"
)

const (
	dniLength         = 8
	minPasswordLength = 6

	mailTimeout = 10 * time.Second
)

// Service учётные записи: регистрация с проверкой DNI, вход,
// восстановление пароля по OTP
type Service struct {
	users        UserRepository
	registry     IdentityClient
	mailer       Mailer
	auth         AuthOptions
	timeProvider TimeProvider
	log          Logger
}

// NewService создает сервис пользователей
func NewService(
	users UserRepository,
	registry IdentityClient,
	mail Mailer,
	auth AuthOptions,
	timeProvider TimeProvider,
	log Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		users:        users,
		registry:     registry,
		mailer:       mail,
		auth:         auth,
		timeProvider: timeProvider,
		log:          log,
	}
}

// Register регистрирует пользователя. Имя берётся из национального
// реестра по DNI; при выключенном или недоступном реестре используется
// fallback-имя, отказ реестра по самому DNI регистрацию блокирует.
func (s *Service) Register(ctx context.Context, input *RegisterInput) (*domain.User, error) {
	if err := s.validateRegister(input); err != nil {
		return nil, err
	}

	name, err := s.resolveName(ctx, input.DNI)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash password: %v", ErrInternal, err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		DNI:          input.DNI,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateDNI):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDNI, input.DNI)
		case errors.Is(err, userstore.ErrDuplicateEmail):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, input.Email)
		default:
			s.log.Error("Users.Register: dni=%s: %v", input.DNI, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	s.log.Info("Users.Register: registered dni=%s", user.DNI)
	return user, nil
}

// Login проверяет пару DNI/пароль и выпускает токен доступа
func (s *Service) Login(ctx context.Context, dni, password string) (*LoginResult, error) {
	if dni == "" || password == "" {
		return nil, fmt.Errorf("%w: dni and password are required", ErrInvalidInput)
	}

	user, err := s.users.GetByDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			// Не раскрываем, что именно не совпало
			return nil, ErrInvalidCredentials
		}
		s.log.Error("Users.Login: dni=%s: %v", dni, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.timeProvider.Now()
	token, err := authtoken.Issue(s.auth.Secret, user.DNI, string(user.Role), s.auth.TokenTTL, now)
	if err != nil {
		s.log.Error("Users.Login: failed to issue token dni=%s: %v", dni, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &LoginResult{
		Token:       token,
		Role:        user.Role,
		Name:        user.Name,
		Strikes:     user.Strikes,
		BannedUntil: user.BannedUntil,
	}, nil
}

// GetProfile возвращает профиль пользователя
func (s *Service) GetProfile(ctx context.Context, dni string) (*domain.User, error) {
	user, err := s.users.GetByDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: dni %s", ErrUserNotFound, dni)
		}
		s.log.Error("Users.GetProfile: dni=%s: %v", dni, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return user, nil
}

// ForgotPassword генерирует OTP восстановления и отправляет его на
// зарегистрированный email. Неизвестная пара DNI+email не является
// ошибкой: ответ одинаков в обоих случаях, чтобы по нему нельзя было
// узнать, существует ли учётная запись.
func (s *Service) ForgotPassword(ctx context.Context, dni, email string) error {
	if dni == "" || email == "" {
		return fmt.Errorf("%w: dni and email are required", ErrInvalidInput)
	}

	user, err := s.users.GetByDNIAndEmail(ctx, dni, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			s.log.Info("Users.ForgotPassword: no account for dni=%s, nothing sent", dni)
			return nil
		}
		s.log.Error("Users.ForgotPassword: dni=%s: %v", dni, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	otp, err := newOTP()
	if err != nil {
		s.log.Error("Users.ForgotPassword: otp generation: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	expires := s.timeProvider.Now().Add(s.auth.OTPExpiry)
	if err := s.users.SetRecoveryToken(ctx, user.DNI, otp, expires); err != nil {
		s.log.Error("Users.ForgotPassword: save otp dni=%s: %v", dni, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.sendOTP(user.Email, otp)
	s.log.Info("Users.ForgotPassword: otp issued dni=%s expires=%s", user.DNI, expires.Format(domain.DateTimeFormat))
	return nil
}

// VerifyOTP проверяет код восстановления без сброса пароля
func (s *Service) VerifyOTP(ctx context.Context, dni, otp string) error {
	_, err := s.checkOTP(ctx, dni, otp)
	return err
}

// ResetPassword сбрасывает пароль по действующему OTP
func (s *Service) ResetPassword(ctx context.Context, dni, otp, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	user, err := s.checkOTP(ctx, dni, otp)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: failed to hash password: %v", ErrInternal, err)
	}

	if err := s.users.ResetPassword(ctx, user.DNI, string(hash)); err != nil {
		s.log.Error("Users.ResetPassword: dni=%s: %v", dni, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.log.Info("Users.ResetPassword: password reset dni=%s", user.DNI)
	return nil
}

func (s *Service) validateRegister(input *RegisterInput) error {
	if input == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if len(input.DNI) != dniLength || strings.Trim(input.DNI, "0123456789") != "" {
		return fmt.Errorf("%w: dni must be %d digits", ErrInvalidInput, dniLength)
	}
	if !strings.Contains(input.Email, "@") {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

// resolveName запрашивает подтверждённое имя в реестре. Недоступность
// реестра не блокирует регистрацию, отрицательный ответ — блокирует.
func (s *Service) resolveName(ctx context.Context, dni string) (string, error) {
	fallback := fmt.Sprintf("Ciudadano %s", dni)
	if !s.registry.Enabled() {
		return fallback, nil
	}

	person, err := s.registry.VerifyDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, identity.ErrDNINotFound) {
			return "", fmt.Errorf("%w: %s", ErrDNINotVerified, dni)
		}
		s.log.Warn("Users.resolveName: registry unavailable for dni=%s, using fallback: %v", dni, err)
		return fallback, nil
	}

	return person.FullName, nil
}

func (s *Service) checkOTP(ctx context.Context, dni, otp string) (*domain.User, error) {
	if dni == "" || otp == "" {
		return nil, fmt.Errorf("%w: dni and code are required", ErrInvalidInput)
	}

	user, err := s.users.GetByDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: dni %s", ErrUserNotFound, dni)
		}
		s.log.Error("Users.checkOTP: dni=%s: %v", dni, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if user.RecoveryToken == nil || *user.RecoveryToken != otp {
		return nil, ErrInvalidOTP
	}
	if user.RecoveryExpires == nil || s.timeProvider.Now().After(*user.RecoveryExpires) {
		return nil, ErrOTPExpired
	}

	return user, nil
}

// sendOTP отправляет код восстановления fire-and-forget
func (s *Service) sendOTP(email, otp string) {
	if s.mailer == nil {
		return
	}

	subject, html := mailer.RecoveryOTP(otp, int(s.auth.OTPExpiry.Minutes()))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, email, subject, html); err != nil {
			s.log.Warn("Users.sendOTP: delivery failed: %v", err)
		}
	}()
}
