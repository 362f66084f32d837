package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paddocklab/racing-admin/admin/service"
	"github.com/paddocklab/racing-admin/admin/state"
	"github.com/paddocklab/racing-admin/shared/logging"
	"github.com/paddocklab/racing-admin/shared/models"
	"github.com/paddocklab/racing-admin/shared/session"
)

type memDriverStore struct {
	mu     sync.Mutex
	docs   map[string]models.Driver
	nextID int
}

func (m *memDriverStore) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Driver, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

func (m *memDriverStore) MaxSequentialID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max int64
	for _, d := range m.docs {
		if d.SequentialID > max {
			max = d.SequentialID
		}
	}
	return max, nil
}

func (m *memDriverStore) CreateDriver(ctx context.Context, driver *models.Driver) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	doc := *driver
	doc.DocID = fmt.Sprintf("drv-%03d", m.nextID)
	m.docs[doc.DocID] = doc
	return doc.DocID, nil
}

func (m *memDriverStore) UpdateDriver(ctx context.Context, docID string, driver *models.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[docID]; !ok {
		return fmt.Errorf("driver %s not found for update", docID)
	}
	doc := *driver
	doc.DocID = docID
	m.docs[docID] = doc
	return nil
}

func (m *memDriverStore) DeleteDriver(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docID)
	return nil
}

type memTeamStore struct {
	mu   sync.Mutex
	docs map[string]models.Team
}

func (m *memTeamStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Team, 0, len(m.docs))
	for _, t := range m.docs {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTeamStore) MaxSequentialID(ctx context.Context) (int64, error) { return 0, nil }

func (m *memTeamStore) CreateTeam(ctx context.Context, team *models.Team) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := *team
	doc.DocID = fmt.Sprintf("team-%03d", len(m.docs)+1)
	m.docs[doc.DocID] = doc
	return doc.DocID, nil
}

func (m *memTeamStore) UpdateTeam(ctx context.Context, docID string, team *models.Team) error {
	return nil
}

func (m *memTeamStore) DeleteTeam(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docID)
	return nil
}

type memProvider struct {
	accounts  map[string]string
	listeners []func(*models.Identity)
}

func (p *memProvider) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	if pw, ok := p.accounts[email]; ok && pw == password {
		return &models.Identity{UserID: "user-1", Email: email}, nil
	}
	return nil, errors.New("invalid email or password")
}

func (p *memProvider) Register(ctx context.Context, email, password string) (*models.Identity, error) {
	if _, exists := p.accounts[email]; exists {
		return nil, errors.New("account already exists")
	}
	p.accounts[email] = password
	return &models.Identity{UserID: "user-1", Email: email}, nil
}

func (p *memProvider) Deauthenticate(ctx context.Context, identity *models.Identity) error {
	return nil
}

func (p *memProvider) OnIdentityChange(fn func(*models.Identity)) {
	p.listeners = append(p.listeners, fn)
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Identity
	next     int
}

func (m *memSessionStore) Persist(ctx context.Context, identity *models.Identity) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := fmt.Sprintf("tok-%03d", m.next)
	m.sessions[token] = identity
	return token, nil
}

func (m *memSessionStore) Retrieve(ctx context.Context, token string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if identity, ok := m.sessions[token]; ok {
		return identity, nil
	}
	return nil, session.ErrNotFound
}

func (m *memSessionStore) Clear(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	log := logging.Nop()
	drivers := &memDriverStore{docs: map[string]models.Driver{}}
	teams := &memTeamStore{docs: map[string]models.Team{}}
	provider := &memProvider{accounts: map[string]string{"admin@example.com": "hunter22"}}
	sessions := &memSessionStore{sessions: map[string]*models.Identity{}}

	handlers := NewAdminAPIHandlers(
		service.NewAuthService(provider, sessions, log),
		service.NewDriverService(drivers, log, false),
		service.NewTeamService(teams, drivers, log, false),
		state.New(),
		sessions,
		24*time.Hour,
		log,
	)

	router := mux.NewRouter()
	handlers.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router *mux.Router) *http.Cookie {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/login", CredentialsRequest{Email: "admin@example.com", Password: "hunter22"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set on login")
	return nil
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/drivers", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/drivers", nil, &http.Cookie{Name: session.CookieName, Value: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", CredentialsRequest{Email: "admin@example.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login failed. Please check your credentials.", resp.Message)
}

func TestDriverCRUDOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/drivers", service.DriverInput{
		FirstName: "Ayrton", LastName: "Senna", DOB: "1960-03-21", Country: "Brazil",
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.DocID)

	rec = doJSON(t, router, http.MethodGet, "/drivers", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var drivers []models.Driver
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drivers))
	require.Len(t, drivers, 1)
	assert.Equal(t, int64(1), drivers[0].SequentialID)

	rec = doJSON(t, router, http.MethodDelete, "/drivers/"+created.DocID, nil, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/drivers", nil, cookie)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drivers))
	assert.Empty(t, drivers)
}

func TestAddDriverValidationReturns400(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/drivers", service.DriverInput{
		FirstName: "Ayrton", LastName: "Senna", DOB: "1960-03-21", Country: "Atlantis",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamRoutesResolveDriverNames(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/drivers", service.DriverInput{
		FirstName: "Charles", LastName: "Leclerc", DOB: "1997-10-16", Country: "Monaco",
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/teams", service.TeamInput{
		Name: "Ferrari", Country: "Italy", DriverRefs: []string{created.DocID, "drv-gone"},
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/teams", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var teams []models.TeamView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teams))
	require.Len(t, teams, 1)
	assert.Equal(t, []string{"Charles Leclerc", "drv-gone"}, teams[0].DriverNames)

	rec = doJSON(t, router, http.MethodGet, "/teams/drivers", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var options []models.DriverOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	require.Len(t, options, 1)
	assert.Equal(t, "Charles Leclerc", options[0].DisplayName)
}

func TestStateEndpointExposesStickyError(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	rec := doJSON(t, router, http.MethodGet, "/state", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var st StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
}
