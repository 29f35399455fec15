package handlers

import (
	"net/http"
	"strconv"

	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/services"
)

// FeedHandler serves the public index, the activity log and the admin-only
// database aggregate.
type FeedHandler struct {
	authz    *authz.Authorizer
	users    services.UserServiceProvider
	sorts    services.SortServiceProvider
	recipes  services.RecipeServiceProvider
	activity services.ActivityServiceProvider
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(authorizer *authz.Authorizer, users services.UserServiceProvider, sorts services.SortServiceProvider, recipes services.RecipeServiceProvider, activity services.ActivityServiceProvider) *FeedHandler {
	return &FeedHandler{authz: authorizer, users: users, sorts: sorts, recipes: recipes, activity: activity}
}

// Index handles GET /: all sorts and recipes, newest first.
func (h *FeedHandler) Index(w http.ResponseWriter, r *http.Request) {
	sorts, err := h.sorts.GetAllSorts()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	recipes, err := h.recipes.GetAllRecipes()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sorts":   sorts,
		"recipes": recipes,
	})
}

// Database handles GET /database: the admin aggregate of every table.
func (h *FeedHandler) Database(w http.ResponseWriter, r *http.Request) {
	if !h.authz.CanViewDatabase(identityFromRequest(r)) {
		writeServiceError(w, services.ErrAccessDenied)
		return
	}

	users, err := h.users.GetAllUsers()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sorts, err := h.sorts.GetAllSorts()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	recipes, err := h.recipes.GetAllRecipes()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":   users,
		"sorts":   sorts,
		"recipes": recipes,
	})
}

// Activity handles GET /activity: the most recent feed entries.
func (h *FeedHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	activities, err := h.activity.Recent(limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
