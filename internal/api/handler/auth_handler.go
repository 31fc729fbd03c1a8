package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spit-library/auth-service/internal/core/domain"
	"github.com/spit-library/auth-service/internal/core/ports"
)

type AuthHandler struct {
	submissions ports.SubmissionService
}

func NewAuthHandler(submissions ports.SubmissionService) *AuthHandler {
	return &AuthHandler{submissions: submissions}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	StudentID string `json:"student_id"`
	Year      string `json:"year"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// googleRequest relays the outcome of the client-side federated sign-in
// popup: the ID token on completion, the raw provider code otherwise.
type googleRequest struct {
	IDToken   string `json:"id_token" validate:"required_without=ErrorCode"`
	ErrorCode string `json:"error_code,omitempty" validate:"required_without=IDToken"`
}

type submissionResponse struct {
	Status      string             `json:"status"`
	Notice      string             `json:"notice"`
	Message     string             `json:"message"`
	FieldErrors domain.FieldErrors `json:"field_errors,omitempty"`
	UID         string             `json:"uid,omitempty"`
}

// Register creates a new account and its profile document.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form fields"
// @Success      201   {object}  submissionResponse
// @Failure      400   {object}  submissionResponse
// @Failure      409   {object}  submissionResponse
// @Failure      500   {object}  submissionResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	out := h.submissions.Submit(c.Request().Context(), domain.CredentialInput{
		Email:     req.Email,
		Password:  req.Password,
		StudentID: req.StudentID,
		Year:      req.Year,
	}, domain.ModeSignup)

	return c.JSON(statusFor(out, http.StatusCreated), toResponse(out))
}

// Login authenticates an email/password pair against the identity provider.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  submissionResponse
// @Failure      400   {object}  submissionResponse
// @Failure      401   {object}  submissionResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	out := h.submissions.Submit(c.Request().Context(), domain.CredentialInput{
		Email:    req.Email,
		Password: req.Password,
	}, domain.ModeLogin)

	return c.JSON(statusFor(out, http.StatusOK), toResponse(out))
}

// GoogleSignIn completes a federated sign-in and creates the profile on
// first contact. A dismissed popup settles as a neutral cancellation.
//
// @Summary      Google sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleRequest  true  "Relayed popup outcome"
// @Success      200   {object}  submissionResponse
// @Failure      400   {object}  submissionResponse
// @Failure      500   {object}  submissionResponse
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	var req googleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out := h.submissions.GoogleSignIn(c.Request().Context(), ports.FederatedCredential{
		IDToken:   req.IDToken,
		ErrorCode: req.ErrorCode,
	})

	return c.JSON(statusFor(out, http.StatusOK), toResponse(out))
}

// statusFor maps a terminal outcome to an HTTP status. successCode lets
// registration answer 201 where login answers 200.
func statusFor(out domain.Outcome, successCode int) int {
	switch out.Status {
	case domain.OutcomeSuccess:
		return successCode
	case domain.OutcomeRejected:
		return http.StatusBadRequest
	case domain.OutcomeCancelled:
		return http.StatusOK
	}

	switch out.Reason {
	case domain.CodeEmailInUse:
		return http.StatusConflict
	case domain.CodeInvalidCredential:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func toResponse(out domain.Outcome) submissionResponse {
	return submissionResponse{
		Status:      string(out.Status),
		Notice:      string(out.Notice),
		Message:     out.Message,
		FieldErrors: out.FieldErrors,
		UID:         out.UID,
	}
}
