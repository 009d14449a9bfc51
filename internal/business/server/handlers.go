package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/authops"
	"github.com/zenorapm/zenora/internal/config"
	"github.com/zenorapm/zenora/internal/dashboard"
	"github.com/zenorapm/zenora/internal/routegate"
	"github.com/zenorapm/zenora/internal/serviceerr"
	"github.com/zenorapm/zenora/internal/session"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type loginRequest struct {
	Email        string `json:"email"        validate:"required,email"`
	Password     string `json:"password"     validate:"required,min=6"`
	AdminAttempt bool   `json:"admin_attempt"`
}

type signupRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type loginResponse struct {
	RedirectTo string       `json:"redirect_to"`
	User       userResponse `json:"user"`
}

type signupResponse struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
	Warning    string `json:"warning,omitempty"`
}

type propertyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	MonthlyRent int64  `json:"monthly_rent"`
}

type documentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type overviewResponse struct {
	Settings struct {
		ShowProperties  bool `json:"show_properties"`
		ShowDocuments   bool `json:"show_documents"`
		ShowFinancials  bool `json:"show_financials"`
		ShowMaintenance bool `json:"show_maintenance"`
		ShowAIInsights  bool `json:"show_ai_insights"`
	} `json:"settings"`
	Properties []propertyResponse `json:"properties"`
	Documents  []documentResponse `json:"documents"`
	Metrics    struct {
		TotalProperties    int    `json:"total_properties"`
		OccupiedProperties int    `json:"occupied_properties"`
		OccupancyPercent   int    `json:"occupancy_percent"`
		MonthlyRevenue     int64  `json:"monthly_revenue"`
		FormattedRevenue   string `json:"formatted_revenue"`
		FormattedOccupancy string `json:"formatted_occupancy"`
	} `json:"metrics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the authentication and dashboard endpoints.
type Handler struct {
	auth     *authops.Service
	loader   *dashboard.Loader
	admins   *allowlist.List
	sessions session.Repository
	cookie   config.CookieTemplate
	metrics  *Collector
	now      func() time.Time
}

func NewHandler(
	auth *authops.Service,
	loader *dashboard.Loader,
	admins *allowlist.List,
	sessions session.Repository,
	cookie config.CookieTemplate,
	metrics *Collector,
) *Handler {
	return &Handler{
		auth:     auth,
		loader:   loader,
		admins:   admins,
		sessions: sessions,
		cookie:   cookie,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Login exchanges credentials for a session cookie.
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx := r.Context()

	sess, err := h.auth.SignIn(ctx, req.Email, req.Password, req.AdminAttempt)
	if err != nil {
		h.metrics.RecordSignIn(false)
		writeError(w, err)

		return
	}

	mirror := session.Mirror{
		ID:           uuid.NewString(),
		UserID:       sess.User.ID,
		Email:        sess.User.Email,
		FullName:     sess.User.FullName,
		Admin:        h.admins.IsAdmin(sess.User.Email),
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Expiry:       sess.Expiry,
		LastVisited:  h.now(),
	}
	if err := h.sessions.Store(ctx, mirror); err != nil {
		writeError(w, err)

		return
	}

	h.metrics.RecordSignIn(true)
	http.SetCookie(w, h.cookie.ToCookie(mirror.ID))

	redirect := routegate.RouteDashboard
	if mirror.Admin {
		redirect = routegate.RouteAdmin
	}

	writeJSON(w, http.StatusOK, loginResponse{
		RedirectTo: redirect,
		User: userResponse{
			ID:       sess.User.ID,
			Email:    sess.User.Email,
			FullName: sess.User.FullName,
		},
	})
}

// Signup creates the identity and its profile row. A profile-provisioning
// failure after the identity exists is reported as a warning, not an error.
// POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	outcome, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, err)

		return
	}

	h.metrics.RecordSignUp()

	resp := signupResponse{
		UserID:     outcome.UserID,
		Email:      outcome.Email,
		RedirectTo: routegate.RouteLogin,
	}
	if outcome.Warning != nil {
		resp.Warning = "account created but profile setup did not complete"
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Logout drops the server-side session copy and clears the cookie.
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.sessions.Delete(ctx, cookie.Value); err != nil && !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Error(ctx, "Failed to delete session", "error", err)
		}
	}

	expired := h.cookie.ToCookie("")
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	w.WriteHeader(http.StatusNoContent)
}

// Overview loads the dashboard for the cookie's user.
// GET /dashboard/overview
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mirror, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	overview, err := h.loader.Load(ctx, mirror.UserID)
	if err != nil {
		var loadErr *serviceerr.DataLoadError
		if errors.As(err, &loadErr) {
			h.metrics.RecordDashboardFailure(loadErr.Collection)
		}

		writeError(w, err)

		return
	}

	mirror.LastVisited = h.now()
	if err := h.sessions.Store(ctx, mirror); err != nil {
		slogctx.Error(ctx, "Failed to update session visit time", "error", err)
	}

	writeJSON(w, http.StatusOK, overviewToResponse(overview))
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (session.Mirror, bool) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil {
		writeError(w, &serviceerr.AuthError{Message: "missing session cookie"})

		return session.Mirror{}, false
	}

	mirror, err := h.sessions.Load(r.Context(), cookie.Value)
	if errors.Is(err, serviceerr.ErrNotFound) {
		writeError(w, &serviceerr.AuthError{Message: "unknown session"})

		return session.Mirror{}, false
	}
	if err != nil {
		writeError(w, err)

		return session.Mirror{}, false
	}

	if mirror.Expired(h.now()) {
		writeError(w, serviceerr.ErrSessionExpired)

		return session.Mirror{}, false
	}

	return mirror, true
}

func overviewToResponse(overview *dashboard.Overview) overviewResponse {
	var resp overviewResponse

	resp.Settings.ShowProperties = overview.Settings.ShowProperties
	resp.Settings.ShowDocuments = overview.Settings.ShowDocuments
	resp.Settings.ShowFinancials = overview.Settings.ShowFinancials
	resp.Settings.ShowMaintenance = overview.Settings.ShowMaintenance
	resp.Settings.ShowAIInsights = overview.Settings.ShowAIInsights

	resp.Properties = make([]propertyResponse, 0, len(overview.Properties))
	for _, p := range overview.Properties {
		resp.Properties = append(resp.Properties, propertyResponse{
			ID:          p.ID,
			Name:        p.Name,
			Address:     p.Address,
			Status:      p.Status,
			MonthlyRent: p.MonthlyRent,
		})
	}

	resp.Documents = make([]documentResponse, 0, len(overview.Documents))
	for _, d := range overview.Documents {
		resp.Documents = append(resp.Documents, documentResponse{
			ID:        d.ID,
			Name:      d.Name,
			CreatedAt: d.CreatedAt,
		})
	}

	resp.Metrics.TotalProperties = len(overview.Properties)
	resp.Metrics.OccupiedProperties = overview.OccupiedCount()
	resp.Metrics.OccupancyPercent = overview.OccupancyPercent()
	resp.Metrics.MonthlyRevenue = overview.MonthlyRevenue()
	resp.Metrics.FormattedRevenue = overview.FormattedRevenue()
	resp.Metrics.FormattedOccupancy = overview.FormattedOccupancy()

	return resp
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})

		return false
	}

	if err := validate.Struct(target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, serviceerr.HTTPStatus(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
