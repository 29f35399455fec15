package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// EditorHandler is the unified edit entry point: /editor/{type}/{id} with
// type one of sort, recipe or profile. GET returns the current values for
// form pre-population; POST applies the edit.
type EditorHandler struct {
	authz   *authz.Authorizer
	sorts   services.SortServiceProvider
	recipes services.RecipeServiceProvider
	users   services.UserServiceProvider
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(authorizer *authz.Authorizer, sorts services.SortServiceProvider, recipes services.RecipeServiceProvider, users services.UserServiceProvider) *EditorHandler {
	return &EditorHandler{authz: authorizer, sorts: sorts, recipes: recipes, users: users}
}

// Serve dispatches on the editor type.
func (h *EditorHandler) Serve(w http.ResponseWriter, r *http.Request) {
	editorType := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")

	switch editorType {
	case "sort":
		h.editSort(w, r, id)
	case "recipe":
		h.editRecipe(w, r, id)
	case "profile":
		h.editProfile(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown editor type: " + editorType})
	}
}

func (h *EditorHandler) editSort(w http.ResponseWriter, r *http.Request, id string) {
	actor := identityFromRequest(r)

	if r.Method == http.MethodGet {
		sort, err := h.sorts.GetSortByID(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !h.authz.CanEditOrDeleteSort(actor, sort) {
			writeServiceError(w, services.ErrAccessDenied)
			return
		}
		writeJSON(w, http.StatusOK, sort)
		return
	}

	var payload SortPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sort, err := h.sorts.UpdateSort(actor, id, payload.Bouquet, payload.Description)
	if err != nil {
		log.Warn().Err(err).Str("sort_id", id).Msg("Failed to edit sort")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sort)
}

func (h *EditorHandler) editRecipe(w http.ResponseWriter, r *http.Request, id string) {
	actor := identityFromRequest(r)

	if r.Method == http.MethodGet {
		recipe, err := h.recipes.GetRecipeByID(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !h.authz.CanEditRecipe(actor, recipe) {
			writeServiceError(w, services.ErrAccessDenied)
			return
		}
		writeJSON(w, http.StatusOK, recipe)
		return
	}

	var input services.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	recipe, err := h.recipes.UpdateRecipe(actor, id, input)
	if err != nil {
		log.Warn().Err(err).Str("recipe_id", id).Msg("Failed to edit recipe")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// editProfile ignores the path id: a user can only ever edit their own
// credentials, so the acting identity is authoritative.
func (h *EditorHandler) editProfile(w http.ResponseWriter, r *http.Request) {
	actor := identityFromRequest(r)

	if r.Method == http.MethodGet {
		user, err := h.users.GetUserByID(actor.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}

	var payload struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.users.UpdatePassword(actor, payload.OldPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("user_id", actor.ID).Msg("Failed to change password")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
