package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/database"
	"github.com/mlutsenko/brewbook-be/internal/models"
)

// RecipeInput carries the submitted fields for creating or editing a recipe.
// SortSelector is resolved against the sort catalog (id or exact title).
type RecipeInput struct {
	Title        string  `json:"title"`
	SortSelector string  `json:"sort"`
	CoffeeMass   float64 `json:"coffeeMass"`
	WaterMass    int     `json:"waterMass"`
	WaterTemp    int     `json:"waterTemp"`
	Grinding     float64 `json:"grinding"`
	Acidity      *int    `json:"acidity,omitempty"`
	TDS          *int    `json:"tds,omitempty"`
	Body         string  `json:"body"`
}

// RecipeServiceProvider defines the interface for recipe management.
type RecipeServiceProvider interface {
	GetAllRecipes() ([]models.Recipe, error)
	GetRecipeByID(id string) (models.Recipe, error)
	GetRecipesBySort(sortID string) ([]models.Recipe, error)
	GetRecipesByUser(userID string) ([]models.Recipe, error)
	CreateRecipe(actor authz.Identity, input RecipeInput) (models.Recipe, error)
	UpdateRecipe(actor authz.Identity, id string, input RecipeInput) (models.Recipe, error)
	DeleteRecipe(actor authz.Identity, id string) error
}

// RecipeService provides business logic for user-authored brew recipes.
// Recipes are leaves of the content graph: deleting one never cascades.
type RecipeService struct {
	db       *sql.DB
	authz    *authz.Authorizer
	sorts    SortServiceProvider
	activity ActivityServiceProvider
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(db *sql.DB, authorizer *authz.Authorizer, sorts SortServiceProvider, activity ActivityServiceProvider) *RecipeService {
	return &RecipeService{db: db, authz: authorizer, sorts: sorts, activity: activity}
}

// scanRecipe is a helper to scan a recipe from a row or rows object.
func scanRecipe(scanner interface{ Scan(...interface{}) error }) (models.Recipe, error) {
	var recipe models.Recipe
	var acidity, tds sql.NullInt64
	err := scanner.Scan(
		&recipe.ID, &recipe.Title, &recipe.UserID, &recipe.SortID,
		&recipe.CoffeeMass, &recipe.WaterMass, &recipe.WaterTemp, &recipe.Grinding,
		&acidity, &tds, &recipe.Body, &recipe.CreatedAt,
	)
	if err != nil {
		return recipe, err
	}
	if acidity.Valid {
		v := int(acidity.Int64)
		recipe.Acidity = &v
	}
	if tds.Valid {
		v := int(tds.Int64)
		recipe.TDS = &v
	}
	return recipe, nil
}

const recipeColumns = "id, title, user_id, sort_id, coffee_mass, water_mass, water_temp, grinding, acidity, tds, body, created_at"

// GetAllRecipes retrieves every recipe, newest first.
func (s *RecipeService) GetAllRecipes() ([]models.Recipe, error) {
	return s.queryRecipes("SELECT " + recipeColumns + " FROM recipes ORDER BY created_at DESC, rowid DESC")
}

// GetRecipesBySort retrieves the recipes classified under one sort.
func (s *RecipeService) GetRecipesBySort(sortID string) ([]models.Recipe, error) {
	return s.queryRecipes("SELECT "+recipeColumns+" FROM recipes WHERE sort_id = ? ORDER BY created_at DESC, rowid DESC", sortID)
}

// GetRecipesByUser retrieves the recipes authored by one user.
func (s *RecipeService) GetRecipesByUser(userID string) ([]models.Recipe, error) {
	return s.queryRecipes("SELECT "+recipeColumns+" FROM recipes WHERE user_id = ? ORDER BY created_at DESC, rowid DESC", userID)
}

func (s *RecipeService) queryRecipes(query string, args ...interface{}) ([]models.Recipe, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// GetRecipeByID retrieves a single recipe by its ID.
func (s *RecipeService) GetRecipeByID(id string) (models.Recipe, error) {
	row := s.db.QueryRow("SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id)
	recipe, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Recipe{}, ErrNotFound
		}
		return models.Recipe{}, err
	}
	return recipe, nil
}

// validateInput checks the required brew parameters before anything touches
// the store, so a validation failure can never leave partial state.
func validateInput(input RecipeInput, requireTitle bool) error {
	if requireTitle && strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.CoffeeMass <= 0 || input.WaterMass <= 0 || input.WaterTemp <= 0 || input.Grinding <= 0 {
		return fmt.Errorf("%w: coffee mass, water mass, water temperature and grind size are required", ErrValidation)
	}
	if strings.TrimSpace(input.Body) == "" {
		return fmt.Errorf("%w: brew steps are required", ErrValidation)
	}
	for _, rating := range []*int{input.Acidity, input.TDS} {
		if rating != nil && (*rating < 0 || *rating > 10) {
			return fmt.Errorf("%w: ratings must be between 0 and 10", ErrValidation)
		}
	}
	return nil
}

// CreateRecipe publishes a new recipe authored by the acting identity. Any
// authenticated user may create one.
func (s *RecipeService) CreateRecipe(actor authz.Identity, input RecipeInput) (models.Recipe, error) {
	if !s.authz.CanCreateRecipe(actor) {
		return models.Recipe{}, ErrAccessDenied
	}
	if err := validateInput(input, true); err != nil {
		return models.Recipe{}, err
	}

	sort, err := s.sorts.ResolveSort(input.SortSelector)
	if err != nil {
		return models.Recipe{}, err
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO recipes(id, title, user_id, sort_id, coffee_mass, water_mass, water_temp, grinding, acidity, tds, body)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(input.Title), actor.ID, sort.ID,
		input.CoffeeMass, input.WaterMass, input.WaterTemp, input.Grinding,
		input.Acidity, input.TDS, input.Body,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.Recipe{}, ErrDuplicateTitle
		}
		return models.Recipe{}, err
	}

	if s.activity != nil {
		s.activity.Record("recipe.created", "info", fmt.Sprintf("New recipe %q added for sort %q", input.Title, sort.Title), &id)
	}
	return s.GetRecipeByID(id)
}

// UpdateRecipe changes a recipe's brew parameters, steps and sort. Only the
// author may edit; admins get no bypass. The title is never changed here.
func (s *RecipeService) UpdateRecipe(actor authz.Identity, id string, input RecipeInput) (models.Recipe, error) {
	recipe, err := s.GetRecipeByID(id)
	if err != nil {
		return models.Recipe{}, err
	}
	if !s.authz.CanEditRecipe(actor, recipe) {
		return models.Recipe{}, ErrAccessDenied
	}
	if err := validateInput(input, false); err != nil {
		return models.Recipe{}, err
	}

	sort, err := s.sorts.ResolveSort(input.SortSelector)
	if err != nil {
		return models.Recipe{}, err
	}

	_, err = s.db.Exec(
		`UPDATE recipes SET sort_id = ?, coffee_mass = ?, water_mass = ?, water_temp = ?, grinding = ?, acidity = ?, tds = ?, body = ?
		 WHERE id = ?`,
		sort.ID, input.CoffeeMass, input.WaterMass, input.WaterTemp, input.Grinding,
		input.Acidity, input.TDS, input.Body, id,
	)
	if err != nil {
		return models.Recipe{}, err
	}
	return s.GetRecipeByID(id)
}

// DeleteRecipe removes a single recipe. The author or an admin may delete;
// nothing cascades from a leaf.
func (s *RecipeService) DeleteRecipe(actor authz.Identity, id string) error {
	recipe, err := s.GetRecipeByID(id)
	if err != nil {
		return err
	}
	if !s.authz.CanDeleteRecipe(actor, recipe) {
		return ErrAccessDenied
	}

	if _, err := s.db.Exec("DELETE FROM recipes WHERE id = ?", id); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.Record("recipe.deleted", "warn", fmt.Sprintf("Recipe %q was removed", recipe.Title), &id)
	}
	return nil
}
