// admin/api/handlers.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/paddocklab/racing-admin/admin/apperr"
	"github.com/paddocklab/racing-admin/admin/service"
	"github.com/paddocklab/racing-admin/admin/state"
	"github.com/paddocklab/racing-admin/shared/api"
	"github.com/paddocklab/racing-admin/shared/logging"
	"github.com/paddocklab/racing-admin/shared/models"
	"github.com/paddocklab/racing-admin/shared/session"
)

// AdminAPIHandlers holds references to the services that handle business logic.
type AdminAPIHandlers struct {
	Auth     *service.AuthService
	Drivers  *service.DriverService
	Teams    *service.TeamService
	State    *state.State
	Sessions session.Store
	Logger   logging.Logger

	// CookieTTL is the expiry stamped on the session cookie (1 day).
	CookieTTL time.Duration
}

// NewAdminAPIHandlers is the constructor for the API handlers.
func NewAdminAPIHandlers(auth *service.AuthService, drivers *service.DriverService, teams *service.TeamService, st *state.State, sessions session.Store, cookieTTL time.Duration, logger logging.Logger) *AdminAPIHandlers {
	return &AdminAPIHandlers{
		Auth:     auth,
		Drivers:  drivers,
		Teams:    teams,
		State:    st,
		Sessions: sessions,
		Logger:   logger,

		CookieTTL: cookieTTL,
	}
}

// --- Request/Response DTOs ---

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string           `json:"token"`
	Identity *models.Identity `json:"identity"`
}

type CreatedResponse struct {
	DocID string `json:"docId"`
}

type StateResponse struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// --- Route registration ---

// RegisterRoutes wires all handlers onto the router. Driver and team routes
// require a live session.
func (h *AdminAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.LoginHandler).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/auth/register", h.RegisterHandler).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/auth/logout", h.LogoutHandler).Methods(http.MethodPost, http.MethodOptions)

	protected := router.NewRoute().Subrouter()
	protected.Use(h.RequireSession)

	protected.HandleFunc("/drivers", h.ListDriversHandler).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/drivers", h.AddDriverHandler).Methods(http.MethodPost)
	protected.HandleFunc("/drivers/{docId}", h.UpdateDriverHandler).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/drivers/{docId}", h.DeleteDriverHandler).Methods(http.MethodDelete)

	protected.HandleFunc("/teams", h.ListTeamsHandler).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/teams", h.AddTeamHandler).Methods(http.MethodPost)
	protected.HandleFunc("/teams/drivers", h.AvailableDriversHandler).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/teams/{docId}", h.UpdateTeamHandler).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/teams/{docId}", h.DeleteTeamHandler).Methods(http.MethodDelete)

	protected.HandleFunc("/state", h.StateHandler).Methods(http.MethodGet, http.MethodOptions)
}

// --- Auth handlers ---

// LoginHandler authenticates credentials and sets the session cookie.
// POST /auth/login
func (h *AdminAPIHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	token, identity, err := h.Auth.Login(ctx, h.State, req.Email, req.Password)
	if err != nil {
		api.WriteUnauthorized(w, apperr.UserMessage(err))
		return
	}

	h.setSessionCookie(w, token)
	api.WriteJSON(w, http.StatusOK, AuthResponse{Token: token, Identity: identity})
}

// RegisterHandler creates an account and sets the session cookie.
// POST /auth/register
func (h *AdminAPIHandlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	token, identity, err := h.Auth.Register(ctx, h.State, req.Email, req.Password)
	if err != nil {
		api.WriteError(w, http.StatusConflict, apperr.UserMessage(err))
		return
	}

	h.setSessionCookie(w, token)
	api.WriteJSON(w, http.StatusCreated, AuthResponse{Token: token, Identity: identity})
}

// LogoutHandler clears the session and expires the cookie.
// POST /auth/logout
func (h *AdminAPIHandlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	h.Auth.Logout(ctx, h.State, h.sessionToken(r))
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// --- Driver handlers ---

// ListDriversHandler returns the driver list, optionally filtered by ?q=.
// GET /drivers
func (h *AdminAPIHandlers) ListDriversHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	h.Drivers.List(ctx, h.State)
	api.WriteJSON(w, http.StatusOK, h.Drivers.Search(h.State, r.URL.Query().Get("q")))
}

// AddDriverHandler creates a driver.
// POST /drivers
func (h *AdminAPIHandlers) AddDriverHandler(w http.ResponseWriter, r *http.Request) {
	var input service.DriverInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	docID, err := h.Drivers.Add(ctx, h.State, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, CreatedResponse{DocID: docID})
}

// UpdateDriverHandler overwrites a driver document.
// PUT /drivers/{docId}
func (h *AdminAPIHandlers) UpdateDriverHandler(w http.ResponseWriter, r *http.Request) {
	var input service.DriverInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.Drivers.Update(ctx, h.State, mux.Vars(r)["docId"], input); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDriverHandler deletes a driver. Failures are reflected in /state, not
// in the response status.
// DELETE /drivers/{docId}
func (h *AdminAPIHandlers) DeleteDriverHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	h.Drivers.Delete(ctx, h.State, mux.Vars(r)["docId"])
	w.WriteHeader(http.StatusNoContent)
}

// --- Team handlers ---

// ListTeamsHandler returns the team list with resolved driver names,
// optionally filtered by ?q=.
// GET /teams
func (h *AdminAPIHandlers) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	h.Teams.List(ctx, h.State)
	api.WriteJSON(w, http.StatusOK, h.Teams.Search(h.State, r.URL.Query().Get("q")))
}

// AvailableDriversHandler returns the driver options for the team form.
// GET /teams/drivers
func (h *AdminAPIHandlers) AvailableDriversHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	options, err := h.Teams.AvailableDrivers(ctx)
	if err != nil {
		api.WriteError(w, http.StatusBadGateway, apperr.UserMessage(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, options)
}

// AddTeamHandler creates a team.
// POST /teams
func (h *AdminAPIHandlers) AddTeamHandler(w http.ResponseWriter, r *http.Request) {
	var input service.TeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	docID, err := h.Teams.Add(ctx, h.State, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, CreatedResponse{DocID: docID})
}

// UpdateTeamHandler overwrites a team document.
// PUT /teams/{docId}
func (h *AdminAPIHandlers) UpdateTeamHandler(w http.ResponseWriter, r *http.Request) {
	var input service.TeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.Teams.Update(ctx, h.State, mux.Vars(r)["docId"], input); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTeamHandler deletes a team.
// DELETE /teams/{docId}
func (h *AdminAPIHandlers) DeleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	h.Teams.Delete(ctx, h.State, mux.Vars(r)["docId"])
	w.WriteHeader(http.StatusNoContent)
}

// StateHandler exposes the loading flag and the sticky error message.
// GET /state
func (h *AdminAPIHandlers) StateHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, StateResponse{
		Loading: h.State.Loading(),
		Error:   h.State.Error(),
	})
}

// --- helpers ---

func (h *AdminAPIHandlers) writeServiceError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		api.WriteBadRequest(w, apperr.UserMessage(err))
	case apperr.KindAuth:
		api.WriteUnauthorized(w, apperr.UserMessage(err))
	case apperr.KindWrite, apperr.KindFetch:
		api.WriteError(w, http.StatusBadGateway, apperr.UserMessage(err))
	default:
		api.WriteInternalServerError(w, apperr.UserMessage(err))
	}
}
