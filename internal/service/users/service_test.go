package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	userstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/user"
	"github.com/m04kA/BNP-ReservationService/internal/integrations/identity"
	"github.com/m04kA/BNP-ReservationService/pkg/authtoken"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

// ============================================================
// Фейки зависимостей
// ============================================================

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeRepo struct {
	byDNI map[string]*domain.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byDNI: make(map[string]*domain.User)}
}

func (f *fakeRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := f.byDNI[u.DNI]; ok {
		return nil, userstore.ErrDuplicateDNI
	}
	for _, existing := range f.byDNI {
		if existing.Email == u.Email {
			return nil, userstore.ErrDuplicateEmail
		}
	}
	out := *u
	f.byDNI[u.DNI] = &out
	return &out, nil
}

func (f *fakeRepo) GetByDNI(ctx context.Context, dni string) (*domain.User, error) {
	u, ok := f.byDNI[dni]
	if !ok {
		return nil, userstore.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeRepo) GetByDNIAndEmail(ctx context.Context, dni, email string) (*domain.User, error) {
	u, ok := f.byDNI[dni]
	if !ok || u.Email != email {
		return nil, userstore.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeRepo) SetRecoveryToken(ctx context.Context, dni, token string, expires time.Time) error {
	u, ok := f.byDNI[dni]
	if !ok {
		return userstore.ErrUserNotFound
	}
	u.RecoveryToken = &token
	u.RecoveryExpires = &expires
	return nil
}

func (f *fakeRepo) ResetPassword(ctx context.Context, dni, passwordHash string) error {
	u, ok := f.byDNI[dni]
	if !ok {
		return userstore.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.RecoveryToken = nil
	u.RecoveryExpires = nil
	return nil
}

type fakeRegistry struct {
	enabled bool
	person  *identity.Person
	err     error
}

func (f *fakeRegistry) Enabled() bool { return f.enabled }

func (f *fakeRegistry) VerifyDNI(ctx context.Context, dni string) (*identity.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.person, nil
}

// ============================================================
// Окружение теста
// ============================================================

type env struct {
	repo     *fakeRepo
	registry *fakeRegistry
	clock    *fakeClock
	svc      *Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		repo: newFakeRepo(),
		registry: &fakeRegistry{
			enabled: true,
			person:  &identity.Person{DNI: "12345678", FullName: "María Quispe Huamán"},
		},
		clock: &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, civiltime.Location)},
	}
	e.svc = NewService(
		e.repo,
		e.registry,
		nil, // без почты
		AuthOptions{Secret: "test-secret", TokenTTL: time.Hour, OTPExpiry: 15 * time.Minute},
		e.clock,
		nopLogger{},
	)
	return e
}

func registerInput() *RegisterInput {
	return &RegisterInput{
		DNI:      "12345678",
		Email:    "lector@example.pe",
		Password: "secreto123",
	}
}

func (e *env) registerUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := e.svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	return user
}

// ============================================================
// Сценарии
// ============================================================

func TestRegister_WithRegistryName(t *testing.T) {
	e := newEnv(t)

	user := e.registerUser(t)
	assert.Equal(t, "María Quispe Huamán", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "secreto123", user.PasswordHash)
}

func TestRegister_RegistryDisabledFallbackName(t *testing.T) {
	e := newEnv(t)
	e.registry.enabled = false

	user := e.registerUser(t)
	assert.Equal(t, "Ciudadano 12345678", user.Name)
}

func TestRegister_RegistryUnavailableFallbackName(t *testing.T) {
	e := newEnv(t)
	e.registry.err = identity.ErrServiceUnavailable

	user := e.registerUser(t)
	assert.Equal(t, "Ciudadano 12345678", user.Name)
}

func TestRegister_DNIRejectedByRegistry(t *testing.T) {
	e := newEnv(t)
	e.registry.err = identity.ErrDNINotFound

	_, err := e.svc.Register(context.Background(), registerInput())
	assert.ErrorIs(t, err, ErrDNINotVerified)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short dni", func(in *RegisterInput) { in.DNI = "1234567" }},
		{"non-digit dni", func(in *RegisterInput) { in.DNI = "1234567a" }},
		{"bad email", func(in *RegisterInput) { in.Email = "no-arroba" }},
		{"short password", func(in *RegisterInput) { in.Password = "corta" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			in := registerInput()
			tt.mutate(in)
			_, err := e.svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegister_DuplicateDNI(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)

	in := registerInput()
	in.Email = "otro@example.pe"
	_, err := e.svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrDuplicateDNI)
}

func TestLogin_Success(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)

	result, err := e.svc.Login(context.Background(), "12345678", "secreto123")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleUser, result.Role)
	assert.Equal(t, "María Quispe Huamán", result.Name)

	claims, err := authtoken.Parse("test-secret", result.Token)
	require.NoError(t, err)
	assert.Equal(t, "12345678", claims.DNI)
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)

	_, err := e.svc.Login(context.Background(), "12345678", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownDNIHidden(t *testing.T) {
	e := newEnv(t)

	// Неизвестный DNI неотличим от неверного пароля
	_, err := e.svc.Login(context.Background(), "99999999", "secreto123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BannedUserStillLogsIn(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)
	until := e.clock.now.Add(24 * time.Hour)
	e.repo.byDNI["12345678"].Strikes = 3
	e.repo.byDNI["12345678"].BannedUntil = &until

	result, err := e.svc.Login(context.Background(), "12345678", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Strikes)
	require.NotNil(t, result.BannedUntil)
	assert.Equal(t, until, *result.BannedUntil)
}

func TestForgotPassword_OTPFlow(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)

	err := e.svc.ForgotPassword(context.Background(), "12345678", "lector@example.pe")
	require.NoError(t, err)

	stored := e.repo.byDNI["12345678"]
	require.NotNil(t, stored.RecoveryToken)
	assert.Len(t, *stored.RecoveryToken, 6)
	require.NotNil(t, stored.RecoveryExpires)
	assert.Equal(t, e.clock.now.Add(15*time.Minute), *stored.RecoveryExpires)

	otp := *stored.RecoveryToken
	require.NoError(t, e.svc.VerifyOTP(context.Background(), "12345678", otp))

	require.NoError(t, e.svc.ResetPassword(context.Background(), "12345678", otp, "nueva-clave"))

	// Новый пароль действует, OTP очищен
	_, err = e.svc.Login(context.Background(), "12345678", "nueva-clave")
	assert.NoError(t, err)
	assert.Nil(t, e.repo.byDNI["12345678"].RecoveryToken)
}

func TestForgotPassword_EmailMismatch(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)

	// Несовпавшая пара DNI+email неотличима от успешной отправки,
	// но OTP не выпускается
	err := e.svc.ForgotPassword(context.Background(), "12345678", "otra@example.pe")
	assert.NoError(t, err)
	assert.Nil(t, e.repo.byDNI["12345678"].RecoveryToken)
}

func TestForgotPassword_UnknownAccountHidden(t *testing.T) {
	e := newEnv(t)

	// Незарегистрированный DNI тоже получает "успешный" ответ
	err := e.svc.ForgotPassword(context.Background(), "99999999", "lector@example.pe")
	assert.NoError(t, err)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)
	require.NoError(t, e.svc.ForgotPassword(context.Background(), "12345678", "lector@example.pe"))

	err := e.svc.VerifyOTP(context.Background(), "12345678", "000000x")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_Expired(t *testing.T) {
	e := newEnv(t)
	e.registerUser(t)
	require.NoError(t, e.svc.ForgotPassword(context.Background(), "12345678", "lector@example.pe"))

	e.clock.now = e.clock.now.Add(16 * time.Minute)

	otp := *e.repo.byDNI["12345678"].RecoveryToken
	err := e.svc.VerifyOTP(context.Background(), "12345678", otp)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestResetPassword_ShortPassword(t *testing.T) {
	e := newEnv(t)
	err := e.svc.ResetPassword(context.Background(), "12345678", "123456", "corta")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPasswordHashing(t *testing.T) {
	e := newEnv(t)
	user := e.registerUser(t)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto123")))
}
