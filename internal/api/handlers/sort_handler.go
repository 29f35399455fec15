package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// SortHandler handles HTTP requests for the sort catalog.
type SortHandler struct {
	sorts   services.SortServiceProvider
	users   services.UserServiceProvider
	recipes services.RecipeServiceProvider
}

// NewSortHandler creates a new SortHandler.
func NewSortHandler(sorts services.SortServiceProvider, users services.UserServiceProvider, recipes services.RecipeServiceProvider) *SortHandler {
	return &SortHandler{sorts: sorts, users: users, recipes: recipes}
}

// SortPayload defines the structure for sort create/edit requests.
type SortPayload struct {
	Title       string `json:"title"`
	Bouquet     string `json:"bouquet"`
	Description string `json:"description"`
}

// Create handles POST /new_sort. Admin only.
func (h *SortHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload SortPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sort, err := h.sorts.CreateSort(identityFromRequest(r), payload.Title, payload.Bouquet, payload.Description)
	if err != nil {
		log.Warn().Err(err).Str("title", payload.Title).Msg("Failed to create sort")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sort)
}

// Get handles the sort page: the sort, its creator and its recipes.
func (h *SortHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sort, err := h.sorts.GetSortByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	recipes, err := h.recipes.GetRecipesBySort(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"sort":    sort,
		"recipes": recipes,
	}
	// The creator may have been deleted since; the page still renders.
	if user, err := h.users.GetUserByID(sort.UserID); err == nil {
		response["user"] = user
	}

	writeJSON(w, http.StatusOK, response)
}

// Delete handles GET /delete_sort/{id}: the admin-only cascade removal of a
// sort and its recipes.
func (h *SortHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sorts.DeleteSort(identityFromRequest(r), id); err != nil {
		log.Warn().Err(err).Str("sort_id", id).Msg("Failed to delete sort")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "sort deleted"})
}
