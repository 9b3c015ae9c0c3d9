package tests

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "hive-food/internal/api/http"
	"hive-food/internal/auth"
	"hive-food/internal/domain"
	"hive-food/internal/mocks"
	"hive-food/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router   http.Handler
	tokens   *auth.TokenManager
	users    *mocks.UserRepository
	catalog  *mocks.CatalogRepository
	sessions *mocks.SessionRepository
	items    *mocks.ItemRepository
	cache    *mocks.MenuCache
	activity *mocks.ActivityReader
	qr       *mocks.QRGenerator
}

// setupAPI wires real services over mocked repositories so handler
// tests exercise the full request path below the transport.
func setupAPI(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		tokens:   auth.NewTokenManager("test-secret", time.Hour),
		users:    mocks.NewUserRepository(t),
		catalog:  mocks.NewCatalogRepository(t),
		sessions: mocks.NewSessionRepository(t),
		items:    mocks.NewItemRepository(t),
		cache:    mocks.NewMenuCache(t),
		activity: mocks.NewActivityReader(t),
		qr:       mocks.NewQRGenerator(t),
	}

	userSvc := service.NewUserService(f.users, nil)
	catalogSvc := service.NewCatalogService(f.catalog, f.cache)
	sessionSvc := service.NewSessionService(f.sessions, f.items, f.users, f.catalog, nil, f.qr)
	itemSvc := service.NewItemService(f.sessions, f.items, f.catalog, nil)

	handler := httpapi.NewHandler(userSvc, catalogSvc, sessionSvc, itemSvc, f.activity, f.tokens)
	f.router = httpapi.NewRouter(handler)
	return f
}

// loginAs installs the repository expectation for the middleware's user
// lookup and returns a request cookie for that user.
func (f *apiFixture) loginAs(t *testing.T, user *domain.User) *http.Cookie {
	t.Helper()
	token, err := f.tokens.Mint(user.ID)
	require.NoError(t, err)
	f.users.On("GetUser", user.ID).Return(user, nil)
	return &http.Cookie{Name: "hive_food_session", Value: token}
}

func (f *apiFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func TestHealthCheck(t *testing.T) {
	f := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := f.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "hive-food", body["service"])
}

func TestLogin(t *testing.T) {
	f := setupAPI(t)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	f.users.On("GetUserByEmail", "ana@example.com").
		Return(&domain.User{ID: 1, Email: "ana@example.com", PasswordHash: hash}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		jsonBody(t, map[string]string{"email": "ana@example.com", "password": "correct horse"}))
	rr := f.do(req)

	require.Equal(t, http.StatusOK, rr.Code)

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "hive_food_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login sets the session cookie")
	assert.True(t, cookie.HttpOnly)

	userID, ok := f.tokens.Parse(cookie.Value)
	assert.True(t, ok)
	assert.Equal(t, 1, userID)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := setupAPI(t)
	f.users.On("GetUserByEmail", "ana@example.com").Return(nil, sql.ErrNoRows).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		jsonBody(t, map[string]string{"email": "ana@example.com", "password": "nope"}))
	rr := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestAnonymousRequestsRejected(t *testing.T) {
	f := setupAPI(t)

	paths := []string{
		"/api/sessions",
		"/api/restaurants",
		"/api/activity/top-items",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := f.do(req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestTamperedCookieTreatedAsAnonymous(t *testing.T) {
	f := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.AddCookie(&http.Cookie{Name: "hive_food_session", Value: "not-a-token"})
	rr := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateSession_AdminOnly(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2, FullName: "Ana"}
	cookie := f.loginAs(t, member)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions",
		jsonBody(t, service.SessionInput{Title: "Lunch", Restaurant: "Napoli", DeadlineAt: "2025-06-13T11:30"}))
	req.AddCookie(cookie)
	rr := f.do(req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateSession_Success(t *testing.T) {
	f := setupAPI(t)
	admin := &domain.User{ID: 1, IsAdmin: true}
	cookie := f.loginAs(t, admin)

	f.sessions.On("CreateSession", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions",
		jsonBody(t, service.SessionInput{Title: "Lunch", Restaurant: "Napoli", DeadlineAt: "2025-06-13T11:30"}))
	req.AddCookie(cookie)
	rr := f.do(req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var session domain.OrderSession
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&session))
	assert.Equal(t, "Lunch", session.Title)
	assert.Equal(t, domain.StatusOpen, session.Status)
}

func TestAddItem_LockedSessionConflict(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{
		ID: 3, Status: domain.StatusOpen, DeadlineAt: time.Now().UTC().Add(-time.Hour),
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/3/items",
		jsonBody(t, service.ItemInput{Name: "Pizza", Quantity: 1}))
	req.AddCookie(cookie)
	rr := f.do(req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAddItem_Success(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{
		ID: 3, Status: domain.StatusOpen, DeadlineAt: time.Now().UTC().Add(time.Hour),
	}, nil).Once()
	f.items.On("InsertItem", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/3/items",
		jsonBody(t, service.ItemInput{Name: "Pizza", Quantity: 2, Price: "8.00"}))
	req.AddCookie(cookie)
	rr := f.do(req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var item domain.OrderItem
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&item))
	assert.Equal(t, 2, item.UserID)
	assert.Equal(t, "Pizza", item.ItemName)
}

func TestDeleteItem_ForbiddenForStranger(t *testing.T) {
	f := setupAPI(t)
	stranger := &domain.User{ID: 9}
	cookie := f.loginAs(t, stranger)

	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{
		ID: 3, Status: domain.StatusOpen, DeadlineAt: time.Now().UTC().Add(time.Hour),
	}, nil).Once()
	f.items.On("GetItem", 3, 20).Return(&domain.OrderItem{ID: 20, SessionID: 3, UserID: 5}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/3/items/20", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSessionTranscript_PlainText(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{
		ID: 3, Title: "Lunch", Restaurant: "Napoli", Status: domain.StatusOpen,
		DeadlineAt: time.Date(2025, 6, 13, 11, 30, 0, 0, time.UTC),
	}, nil).Once()
	f.items.On("ListItems", 3).Return([]domain.OrderItem{
		{UserID: 2, ItemName: "Pizza", Quantity: 1},
	}, nil).Once()
	f.users.On("UsersByID", []int{2}).Return(map[int]domain.User{2: {ID: 2, FullName: "Ana"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/3/order-text", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "Ana:")
	assert.Contains(t, rr.Body.String(), "  - Pizza")
}

func TestSessionExport_CSVHeaders(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{
		ID: 3, Title: "Lunch", Restaurant: "Napoli", Status: domain.StatusOpen,
		DeadlineAt: time.Date(2025, 6, 13, 11, 30, 0, 0, time.UTC),
	}, nil).Once()
	f.items.On("ListItems", 3).Return(nil, nil).Once()
	f.users.On("UsersByID", mock.Anything).Return(map[int]domain.User{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/3/export.csv", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="order_session_3.csv"`, rr.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "session_id,session_title,restaurant,deadline_at,status"))
}

func TestSessionQRCode_PNG(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{ID: 3, Status: domain.StatusOpen}, nil).Once()
	f.qr.On("Generate", 3).Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/3/qrcode", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rr.Body.Bytes())
}

func TestCloseSession_DoubleCloseConflict(t *testing.T) {
	f := setupAPI(t)
	admin := &domain.User{ID: 1, IsAdmin: true}
	cookie := f.loginAs(t, admin)

	closedAt := time.Now().UTC()
	f.sessions.On("GetSession", 3).Return(&domain.OrderSession{
		ID: 3, Status: domain.StatusClosed, CreatedBy: 1, ClosedAt: &closedAt,
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/3/close", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.sessions.On("GetSession", 99).Return(nil, sql.ErrNoRows).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/99", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminUserRoutes(t *testing.T) {
	t.Run("member_blocked", func(t *testing.T) {
		f := setupAPI(t)
		member := &domain.User{ID: 2}
		cookie := f.loginAs(t, member)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.AddCookie(cookie)
		rr := f.do(req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("self_delete_forbidden", func(t *testing.T) {
		f := setupAPI(t)
		admin := &domain.User{ID: 1, IsAdmin: true}
		cookie := f.loginAs(t, admin)

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/1", nil)
		req.AddCookie(cookie)
		rr := f.do(req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("create_weak_password_rejected", func(t *testing.T) {
		f := setupAPI(t)
		admin := &domain.User{ID: 1, IsAdmin: true}
		cookie := f.loginAs(t, admin)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/users",
			jsonBody(t, map[string]interface{}{"full_name": "New", "email": "new@example.com", "password": "short"}))
		req.AddCookie(cookie)
		rr := f.do(req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTopItems(t *testing.T) {
	f := setupAPI(t)
	member := &domain.User{ID: 2}
	cookie := f.loginAs(t, member)

	f.activity.On("TopItemNames", mock.Anything, 5).Return([]domain.ItemActivity{
		{Name: "Margherita", Score: 12},
		{Name: "Pad Thai", Score: 7},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/activity/top-items?limit=5", nil)
	req.AddCookie(cookie)
	rr := f.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	var top []domain.ItemActivity
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&top))
	require.Len(t, top, 2)
	assert.Equal(t, "Margherita", top[0].Name)
}
