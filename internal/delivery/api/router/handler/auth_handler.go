package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"blogauth/internal/delivery/api/middleware"
	"blogauth/internal/delivery/api/response"
	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Client-facing confirmation messages.
const (
	msgSignupCreated  = "Account created successfully. Please check your email to verify your account."
	msgResetRequested = "If an account with that email exists, we've sent a password reset link."
	msgPasswordReset  = "Password updated successfully. You can now sign in with your new password."
	msgSignedOut      = "Signed out successfully."
)

// Pages the email verification link lands on.
const (
	verifiedRedirect           = "/auth/signin?message=verified"
	verificationFailedRedirect = "/auth/error?error=Verification"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	IdentityUC usecase.IdentityUsecase
	SessionUC  usecase.SessionUsecase
	Cookies    *middleware.SessionCookies
	Logger     *slog.Logger
}

// AuthHandler serves the credential endpoints under /api/auth.
type AuthHandler struct {
	identityUC usecase.IdentityUsecase
	sessionUC  usecase.SessionUsecase
	cookies    *middleware.SessionCookies
	logger     *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		identityUC: params.IdentityUC,
		sessionUC:  params.SessionUC,
		cookies:    params.Cookies,
		logger:     params.Logger,
	}
}

// --- Request bodies ---

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
}

// --- Response bodies ---

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type SessionResponse struct {
	UserID    uuid.UUID    `json:"userId"`
	Role      string       `json:"role"`
	IssuedAt  time.Time    `json:"issuedAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func newUserResponse(user *usecase.UserSummary) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		AvatarURL: user.AvatarURL,
	}
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: "body", Message: "Invalid request body"},
		})
	}

	return c.Validate(req)
}

// Signup creates a password account and triggers the verification mail.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.identityUC.CreateAccount(c.Request().Context(), usecase.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, SignupResponse{
		Message: msgSignupCreated,
		User: UserResponse{
			ID:    out.User.ID,
			Name:  out.User.Name,
			Email: out.User.Email,
		},
	})
}

// Signin checks credentials and sets the session cookie.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	user, err := h.identityUC.AuthenticateWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	sess, err := h.sessionUC.Issue(ctx, user.ID, user.Role)
	if err != nil {
		return errors.Wrap(err, "failed to issue session")
	}

	h.cookies.Set(c, sess)
	deliverycontext.SetSession(c, sess)

	return response.Success(c, http.StatusOK, newSessionResponse(sess, user))
}

// Signout clears the session cookie. Sessions are stateless, so a copy of
// the token stays valid until it expires.
func (h *AuthHandler) Signout(c echo.Context) error {
	h.cookies.Clear(c)
	deliverycontext.ClearSession(c)

	return response.Message(c, http.StatusOK, msgSignedOut)
}

// Session returns the caller's session and a fresh view of the user.
func (h *AuthHandler) Session(c echo.Context) error {
	sess, ok := deliverycontext.GetSession(c)
	if !ok {
		return response.Unauthorized(c)
	}

	user, err := h.identityUC.GetUser(c.Request().Context(), sess.UserID())
	if errors.Is(err, domainerrors.ErrNotFound) {
		h.cookies.Clear(c)

		return response.Unauthorized(c)
	}
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, newSessionResponse(sess, user))
}

func newSessionResponse(sess *usecase.Session, user *usecase.UserSummary) SessionResponse {
	return SessionResponse{
		UserID:    sess.UserID(),
		Role:      sess.Role().String(),
		IssuedAt:  sess.Claims.IssuedAt,
		ExpiresAt: sess.ExpiresAt(),
		User:      newUserResponse(user),
	}
}

// ForgotPassword answers identically whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.identityUC.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, msgResetRequested)
}

// ResetPassword redeems a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.identityUC.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.Password,
	})
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, msgPasswordReset)
}

// VerifyEmail redeems the link from the verification mail. It always
// redirects, since it is opened from a mail client rather than called by
// the frontend.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := h.identityUC.ConsumeVerificationToken(ctx, c.QueryParam("token"))
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Email verification failed",
			slog.String("failure", domainerrors.FailureOf(err).String()),
			slog.Any("error", err),
		)

		return c.Redirect(http.StatusFound, verificationFailedRedirect)
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Email verified", slog.Any("user_id", userID))

	return c.Redirect(http.StatusFound, verifiedRedirect)
}

// authErrorURL builds the error page location for a NextAuth-style error code.
func authErrorURL(code string) string {
	return "/auth/error?" + url.Values{"error": {code}}.Encode()
}
