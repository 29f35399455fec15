package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mlutsenko/brewbook-be/internal/auth"
	"github.com/mlutsenko/brewbook-be/internal/models"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for identity and account management.
type UserHandler struct {
	users   services.UserServiceProvider
	recipes services.RecipeServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, recipes services.RecipeServiceProvider) *UserHandler {
	return &UserHandler{users: users, recipes: recipes}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setSessionCookie installs the session token; the remember flag stretches
// its lifetime to match the token's own expiry.
func setSessionCookie(w http.ResponseWriter, token string, remember bool) {
	ttl := auth.SessionTTL
	if remember {
		ttl = auth.RememberTTL
	}
	isProd := os.Getenv("APP_ENV") == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// sessionResponse issues a token for user and writes the session payload.
func sessionResponse(w http.ResponseWriter, status int, user models.User, remember bool) {
	token, err := auth.GenerateJWT(user, remember)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate token"})
		return
	}
	setSessionCookie(w, token, remember)
	writeJSON(w, status, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Register handles new user registration. A successful registration logs the
// new user in immediately, remember off.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeServiceError(w, err)
		return
	}

	sessionResponse(w, http.StatusCreated, user, false)
}

// Login handles user authentication and session issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed authentication attempt")
		writeServiceError(w, err)
		return
	}

	sessionResponse(w, http.StatusOK, user, payload.Remember)
}

// Logout clears the session cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Get handles the user page: the account plus the recipes it authored.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.users.GetUserByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	recipes, err := h.recipes.GetRecipesByUser(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"recipes": recipes,
	})
}

// Delete handles the admin-only removal of a user account and everything it
// authored.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.users.DeleteUser(identityFromRequest(r), id); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
