package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
)

// SourceHeader tells clients which store answered a listing.
const SourceHeader = "X-Sessions-Source"

type SessionService interface {
	Create(ctx context.Context, user *models.User, req *models.SessionCreateRequest, channel string) (*models.StudySession, error)
	List(ctx context.Context, user *models.User) (*models.SessionListing, error)
	Dashboard(ctx context.Context, user *models.User) (*models.Dashboard, error)
	Log(ctx context.Context, user *models.User, f models.Filters) (*models.SessionLog, error)
}

type Session struct {
	s            SessionService
	sortSafelist []string
	defaultSort  string
	pageSize     int
	l            logger.Logger
}

func NewSession(s SessionService, sortSafelist []string, defaultSort string, pageSize int, l logger.Logger) *Session {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &Session{
		s:            s,
		sortSafelist: sortSafelist,
		defaultSort:  defaultSort,
		pageSize:     pageSize,
		l:            l,
	}
}

func sourceHeader(source string) http.Header {
	return http.Header{SourceHeader: []string{source}}
}

// Create godoc
// @Summary      Submit a study session
// @Description  Stores one telemetry record for the caller. All seven numeric fields are required.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.SessionCreateRequest  true  "Telemetry record"
// @Success      201      {object}  map[string]any
// @Failure      400      {object}  map[string]any
// @Failure      401      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Router       /sessions [post]
func (h *Session) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_session")
	user := models.UserFromContext(ctx)

	req := &models.SessionCreateRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		if v.HasTag("required") {
			badRequestResponse(w, v.Errors)
			return
		}
		failedValidationResponse(w, v.Errors)
		return
	}

	session, err := h.s.Create(ctx, user, req, types.ChannelHTTP)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save session", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{
		"message": "session saved successfully",
		"session": session,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      List my sessions
// @Description  Reads the remote tracker backend first and falls back to the local store.
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /sessions [get]
func (h *Session) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_sessions")
	user := models.UserFromContext(ctx)

	listing, err := h.s.List(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to fetch sessions", err)
		serviceErrorResponse(w, err)
		return
	}

	source := listing.Source.String()
	response := envelope{
		"source":   source,
		"sessions": listing.Sessions,
	}
	if err := writeJSON(w, http.StatusOK, response, sourceHeader(source)); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Description  Summary, personal bests, focus trend and recent sessions in one payload
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Dashboard
// @Failure      401  {object}  map[string]string
// @Router       /sessions/dashboard [get]
func (h *Session) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "session_dashboard")
	user := models.UserFromContext(ctx)

	dashboard, err := h.s.Dashboard(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build dashboard", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard, sourceHeader(dashboard.Source)); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Log godoc
// @Summary      Sorted session log
// @Description  One page of the caller's sessions. Prefix the sort field with '-' for descending order.
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        sort       query     string  false  "Sort field"  default(-timestamp)
// @Param        page       query     int     false  "Page number" default(1)
// @Param        page_size  query     int     false  "Page size"   default(15)
// @Success      200        {object}  models.SessionLog
// @Failure      401        {object}  map[string]string
// @Failure      422        {object}  map[string]any
// @Router       /sessions/log [get]
func (h *Session) Log(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "session_log")
	user := models.UserFromContext(ctx)

	v := validator.New()
	qs := r.URL.Query()

	page := readInt(qs, "page", 1, v)
	pageSize := readInt(qs, "page_size", h.pageSize, v)
	sort := readString(qs, "sort", h.defaultSort)

	filters, err := models.NewFilters(page, pageSize, sort, h.sortSafelist)
	if err != nil {
		h.l.Error(ctx, "invalid sort safelist", err)
		internalErrorResponse(w, "internal error")
		return
	}

	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	log, err := h.s.Log(ctx, user, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to fetch session log", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, log, sourceHeader(log.Source)); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
