package auth

import (
	"errors"
	"net/http"

	"github.com/m04kA/BNP-ReservationService/internal/api/handlers"
	"github.com/m04kA/BNP-ReservationService/internal/api/middleware"
	"github.com/m04kA/BNP-ReservationService/internal/service/users"
)

const (
	msgInvalidRequestBody = "cuerpo de solicitud inválido"
	msgInvalidInput       = "datos de solicitud inválidos"
	msgDuplicateDNI       = "el DNI ya está registrado"
	msgDuplicateEmail     = "el correo ya está registrado"
	msgDNINotVerified     = "el DNI no figura en el registro nacional"
	msgInvalidCredentials = "DNI o contraseña incorrectos"
	msgUserNotFound       = "usuario no encontrado"
	msgInvalidOTP         = "código de verificación incorrecto"
	msgOTPExpired         = "código de verificación expirado"
	msgOTPSent            = "código de verificación enviado al correo registrado"
	msgOTPValid           = "código de verificación válido"
	msgPasswordReset      = "contraseña actualizada"
)

type Handler struct {
	service UsersService
	logger  Logger
}

func NewHandler(service UsersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleRegister POST /api/v1/auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	user, err := h.service.Register(r.Context(), &users.RegisterInput{
		DNI:      req.DNI,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateDNI):
			handlers.RespondConflict(w, msgDuplicateDNI)
		case errors.Is(err, users.ErrDuplicateEmail):
			handlers.RespondConflict(w, msgDuplicateEmail)
		case errors.Is(err, users.ErrDNINotVerified):
			handlers.RespondBadRequest(w, msgDNINotVerified)
		case errors.Is(err, users.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /auth/register - error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/register - Registered dni=%s", user.DNI)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainUser(user))
}

// HandleLogin POST /api/v1/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Login(r.Context(), req.DNI, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			handlers.RespondUnauthorized(w, msgInvalidCredentials)
		case errors.Is(err, users.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /auth/login - error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromLoginResult(result))
}

// HandleProfile GET /api/v1/users/me
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), identity.DNI)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			handlers.RespondNotFound(w, msgUserNotFound)
			return
		}
		h.logger.Error("GET /users/me - dni=%s error=%v", identity.DNI, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainUser(user))
}

// HandleForgot POST /api/v1/auth/forgot-password
func (h *Handler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req ForgotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.DNI, req.Email); err != nil {
		h.respondRecoveryError(w, "POST /auth/forgot-password", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, MessageResponse{Message: msgOTPSent})
}

// HandleVerifyOTP POST /api/v1/auth/verify-otp
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.DNI, req.Code); err != nil {
		h.respondRecoveryError(w, "POST /auth/verify-otp", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, MessageResponse{Message: msgOTPValid})
}

// HandleReset POST /api/v1/auth/reset-password
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.DNI, req.Code, req.NewPassword); err != nil {
		h.respondRecoveryError(w, "POST /auth/reset-password", err)
		return
	}

	h.logger.Info("POST /auth/reset-password - Password reset dni=%s", req.DNI)
	handlers.RespondJSON(w, http.StatusOK, MessageResponse{Message: msgPasswordReset})
}

func (h *Handler) respondRecoveryError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		handlers.RespondNotFound(w, msgUserNotFound)
	case errors.Is(err, users.ErrInvalidOTP):
		handlers.RespondBadRequest(w, msgInvalidOTP)
	case errors.Is(err, users.ErrOTPExpired):
		handlers.RespondBadRequest(w, msgOTPExpired)
	case errors.Is(err, users.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)
	default:
		h.logger.Error("%s - error=%v", op, err)
		handlers.RespondInternalError(w)
	}
}
