package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, newUser *models.UserCreateRequest) (uuid.UUID, error)
	Login(ctx context.Context, username, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a student account. Username needs 3+ characters, password 6+.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RegisterUserRequest  true  "New user"
// @Success      201      {object}  map[string]string
// @Failure      400      {object}  map[string]any
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Router       /auth/register [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	req := &dto.RegisterUserRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	newUser := req.ToModel()

	v := validator.New()
	newUser.Validate(v)
	if !v.Valid() {
		if v.HasTag("required") {
			badRequestResponse(w, v.Errors)
			return
		}
		failedValidationResponse(w, v.Errors)
		return
	}

	id, err := h.auth.Register(ctx, newUser)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register a new user", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"id": id}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges username and password for an access/refresh token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LoginRequest  true  "Credentials"
// @Success      200      {object}  dto.TokenResponse
// @Failure      400      {object}  map[string]any
// @Failure      401      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		badRequestResponse(w, v.Errors)
		return
	}

	tokens, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.l.Warn(ctx, "login rejected", "username", req.Username, "reason", err.Error())
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.NewTokenResponse(tokens), nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Refresh godoc
// @Summary      Rotate tokens
// @Description  Exchanges a refresh token for a new pair. Each refresh token works once.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  dto.TokenResponse
// @Failure      400      {object}  map[string]any
// @Failure      401      {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_token")

	req := &dto.RefreshTokenRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRefreshToken(v, req)
	if !v.Valid() {
		badRequestResponse(w, v.Errors)
		return
	}

	tokens, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to refresh token pair", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.NewTokenResponse(tokens), nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Profile godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]models.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w, "authorization required")
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
