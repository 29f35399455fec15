package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mlutsenko/brewbook-be/internal/auth"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/database"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/mlutsenko/brewbook-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminEmail = "a@x.com"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	auth.Init("test-secret")

	db, err := database.New(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	authorizer := authz.New([]string{testAdminEmail})
	activityService := services.NewActivityService(db, nil)
	userService := services.NewUserService(db, authorizer, activityService)
	sortService := services.NewSortService(db, authorizer, activityService)
	recipeService := services.NewRecipeService(db, authorizer, sortService, activityService)

	return NewRouter(websocket.NewHub(), authorizer, userService, sortService, recipeService, activityService)
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates an account and returns its session token.
func registerAndLogin(t *testing.T, router http.Handler, username, email string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "bob", "bob@example.com")

	rec := doJSON(t, router, http.MethodPost, "/login", "", map[string]interface{}{
		"username": "bob",
		"password": "secret123",
		"remember": true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "token=")

	rec = doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "bob",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/register", "", map[string]string{
		"username": "bob",
		"email":    "second@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestNewSortAuthorization(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerAndLogin(t, router, "admin", testAdminEmail)
	bobToken := registerAndLogin(t, router, "bob", "bob@example.com")

	payload := map[string]string{
		"title":       "Ethiopia Yirgacheffe",
		"bouquet":     "floral, citrus",
		"description": "Washed arabica.",
	}

	rec := doJSON(t, router, http.MethodPost, "/new_sort", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "anonymous")

	rec = doJSON(t, router, http.MethodPost, "/new_sort", bobToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code, "regular member")

	rec = doJSON(t, router, http.MethodPost, "/new_sort", adminToken, payload)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestIndexAndDetailPages(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerAndLogin(t, router, "admin", testAdminEmail)
	bobToken := registerAndLogin(t, router, "bob", "bob@example.com")

	rec := doJSON(t, router, http.MethodPost, "/new_sort", adminToken, map[string]string{
		"title": "Kenya AA", "bouquet": "berry", "description": "Bright.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sort struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sort))

	rec = doJSON(t, router, http.MethodPost, "/new_recipe", bobToken, map[string]interface{}{
		"title": "V60", "sort": "Kenya AA",
		"coffeeMass": 15.0, "waterMass": 250, "waterTemp": 93, "grinding": 2.5,
		"body": "Bloom, pour.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var recipe struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipe))

	// Public index, no session required.
	rec = doJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kenya AA")
	assert.Contains(t, rec.Body.String(), "V60")

	rec = doJSON(t, router, http.MethodGet, "/sort/"+sort.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/recipe/"+recipe.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/recipe/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDatabaseViewAdminOnly(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerAndLogin(t, router, "admin", testAdminEmail)
	bobToken := registerAndLogin(t, router, "bob", "bob@example.com")

	rec := doJSON(t, router, http.MethodGet, "/database", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/database", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bob@example.com")
}

func TestDeleteSortCascadeOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerAndLogin(t, router, "admin", testAdminEmail)
	bobToken := registerAndLogin(t, router, "bob", "bob@example.com")

	rec := doJSON(t, router, http.MethodPost, "/new_sort", adminToken, map[string]string{
		"title": "Ethiopia Yirgacheffe", "bouquet": "floral", "description": "Washed.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sort struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sort))

	rec = doJSON(t, router, http.MethodPost, "/new_recipe", bobToken, map[string]interface{}{
		"title": "V60 light roast", "sort": "Ethiopia Yirgacheffe",
		"coffeeMass": 15.0, "waterMass": 250, "waterTemp": 93, "grinding": 2.5,
		"body": "Bloom, pour.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var recipe struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipe))

	// A member cannot delete a sort.
	rec = doJSON(t, router, http.MethodGet, "/delete_sort/"+sort.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/delete_sort/"+sort.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The cascaded recipe is gone with it.
	rec = doJSON(t, router, http.MethodGet, "/recipe/"+recipe.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Second delete of the same id.
	rec = doJSON(t, router, http.MethodGet, "/delete_sort/"+sort.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditorDispatch(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerAndLogin(t, router, "admin", testAdminEmail)
	bobToken := registerAndLogin(t, router, "bob", "bob@example.com")

	rec := doJSON(t, router, http.MethodPost, "/new_sort", adminToken, map[string]string{
		"title": "Kenya AA", "bouquet": "berry", "description": "Bright.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sort struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sort))

	// GET pre-populates; members are turned away from the sort editor.
	rec = doJSON(t, router, http.MethodGet, "/editor/sort/"+sort.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kenya AA")

	rec = doJSON(t, router, http.MethodGet, "/editor/sort/"+sort.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// POST applies the edit; the title stays as created.
	rec = doJSON(t, router, http.MethodPost, "/editor/sort/"+sort.ID, adminToken, map[string]string{
		"title": "Renamed", "bouquet": "blackcurrant", "description": "New crop.",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kenya AA")
	assert.Contains(t, rec.Body.String(), "blackcurrant")

	// Profile editor changes the password.
	rec = doJSON(t, router, http.MethodPost, "/editor/profile/me", bobToken, map[string]string{
		"oldPassword": "secret123", "newPassword": "newpass456",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "bob", "password": "newpass456",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/editor/unknown/x", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
