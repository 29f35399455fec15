package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mlutsenko/brewbook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	recipes services.RecipeServiceProvider
	sorts   services.SortServiceProvider
	users   services.UserServiceProvider
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes services.RecipeServiceProvider, sorts services.SortServiceProvider, users services.UserServiceProvider) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, sorts: sorts, users: users}
}

// Create handles POST /new_recipe. Any authenticated user.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	recipe, err := h.recipes.CreateRecipe(identityFromRequest(r), input)
	if err != nil {
		log.Warn().Err(err).Str("title", input.Title).Msg("Failed to create recipe")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

// Get handles the recipe page: the recipe, its sort, its author and the other
// recipes sharing the sort.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recipe, err := h.recipes.GetRecipeByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := map[string]interface{}{"recipe": recipe}
	if sort, err := h.sorts.GetSortByID(recipe.SortID); err == nil {
		response["sort"] = sort
		if siblings, err := h.recipes.GetRecipesBySort(sort.ID); err == nil {
			response["other"] = siblings
		}
	}
	if user, err := h.users.GetUserByID(recipe.UserID); err == nil {
		response["user"] = user
	}

	writeJSON(w, http.StatusOK, response)
}

// Delete handles GET /delete_recipe/{id}. Author or admin.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.recipes.DeleteRecipe(identityFromRequest(r), id); err != nil {
		log.Warn().Err(err).Str("recipe_id", id).Msg("Failed to delete recipe")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}
