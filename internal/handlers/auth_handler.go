package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-health/portal-api/internal/auth"
	"github.com/medico-health/portal-api/internal/dto"
	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/session"
	"github.com/medico-health/portal-api/internal/store"
)

type AuthHandler struct {
	svc      *auth.Service
	sessions *session.Manager
}

func NewAuthHandler(svc *auth.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	role, err := profile.ParseRole(req.Role)
	if err != nil {
		return badRequest(c, "Role must be patient or doctor")
	}

	out, err := h.svc.SignIn(c.Context(), req.Email, req.Password, role)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(outcomeResponse(out))
}

func (h *AuthHandler) SocialSignIn(c *fiber.Ctx) error {
	var req dto.SocialSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProviderToken == "" {
		return badRequest(c, "Provider token is required")
	}

	role, err := profile.ParseRole(req.Role)
	if err != nil {
		return badRequest(c, "Role must be patient or doctor")
	}
	mode, err := auth.ParseMode(req.Mode)
	if err != nil {
		return badRequest(c, "Mode must be login or register")
	}

	out, err := h.svc.SocialSignIn(c.Context(), req.ProviderToken, role, mode)
	if err != nil {
		return authError(c, err)
	}

	return c.JSON(outcomeResponse(out))
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.svc.Register(c.Context(), auth.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		Role:            profile.Role(req.Role),
		License:         req.License,
		Specialization:  req.Specialization,
		AcceptedTerms:   req.AcceptTerms,
	})
	if err != nil {
		var fieldErrs auth.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]dto.FieldError, len(fieldErrs))
			for i, fe := range fieldErrs {
				fields[i] = dto.FieldError{Field: fe.Field, Message: fe.Message}
			}
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Validation failed", Fields: fields,
			})
		}
		if errors.Is(err, store.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: auth.UserMessage(err),
			})
		}
		return authError(c, err)
	}

	resp := outcomeResponse(out)
	sent := out.VerificationSent
	resp.VerificationSent = &sent
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to log out",
		})
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Session reports the current bootstrap state so the browser client
// can decide what to render before navigating.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	snap := h.sessions.Snapshot()
	resp := dto.SessionResponse{
		Loading:       snap.Loading,
		Authenticated: snap.Identity != nil,
	}
	if snap.Identity != nil && snap.Profile != nil {
		resp.User = userResponse(snap.Identity.Key, snap.Profile)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) CompleteDoctorProfile(c *fiber.Ctx) error {
	var req dto.CompleteProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.svc.CompleteDoctorProfile(c.Context(), req.License, req.Specialization)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(outcomeResponse(out))
}

// authError maps flow errors to HTTP statuses with user-facing
// messages.
func authError(c *fiber.Ctx, err error) error {
	var fieldErrs auth.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]dto.FieldError, len(fieldErrs))
		for i, fe := range fieldErrs {
			fields[i] = dto.FieldError{Field: fe.Field, Message: fe.Message}
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: fields,
		})
	}

	status := fiber.StatusInternalServerError
	var mismatch *auth.RoleMismatchError
	switch {
	case errors.As(err, &mismatch):
		status = fiber.StatusForbidden
	case errors.Is(err, store.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrProfileNotFound), errors.Is(err, auth.ErrAccountNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrNoSession):
		status = fiber.StatusUnauthorized
	case errors.Is(err, store.ErrNetworkFailure),
		errors.Is(err, store.ErrOperationNotAllowed),
		errors.Is(err, store.ErrUnauthorizedDomain):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: auth.UserMessage(err),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func outcomeResponse(out *auth.Outcome) dto.AuthResponse {
	resp := dto.AuthResponse{
		Token:  out.Token,
		Target: out.Target,
		Notice: out.Notice,
	}
	if out.Profile != nil {
		resp.User = userResponse(out.Identity.Key, out.Profile)
	}
	return resp
}

func userResponse(key string, p *profile.UserProfile) *dto.UserResponse {
	return &dto.UserResponse{
		Key:              key,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Role:             string(p.Role),
		ProfileCompleted: p.ProfileCompleted(),
	}
}
