package services

import (
	"testing"

	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/database"
	"github.com/mlutsenko/brewbook-be/internal/models"
	"github.com/stretchr/testify/require"
)

const adminEmail = "a@x.com"

// testEnv wires all services against a real SQLite database in a temp dir.
type testEnv struct {
	users   *UserService
	sorts   *SortService
	recipes *RecipeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	authorizer := authz.New([]string{adminEmail})
	activity := NewActivityService(db, nil)
	users := NewUserService(db, authorizer, activity)
	sorts := NewSortService(db, authorizer, activity)
	recipes := NewRecipeService(db, authorizer, sorts, activity)

	return &testEnv{users: users, sorts: sorts, recipes: recipes}
}

// register creates an account and returns the acting identity for it.
func (e *testEnv) register(t *testing.T, username, email string) (models.User, authz.Identity) {
	t.Helper()
	user, err := e.users.Register(username, email, "secret123")
	require.NoError(t, err)
	return user, authz.Identity{ID: user.ID, Email: user.Email}
}

// registerAdmin creates the account whose email is on the allowlist.
func (e *testEnv) registerAdmin(t *testing.T) (models.User, authz.Identity) {
	t.Helper()
	return e.register(t, "admin", adminEmail)
}

// addSort creates a sort as the admin.
func (e *testEnv) addSort(t *testing.T, actor authz.Identity, title string) models.Sort {
	t.Helper()
	sort, err := e.sorts.CreateSort(actor, title, "floral, citrus", "Washed arabica.")
	require.NoError(t, err)
	return sort
}

// anonymousIdentity is the acting subject of an unauthenticated request.
func anonymousIdentity() authz.Identity {
	return authz.Identity{}
}

// validRecipeInput returns a complete recipe submission for the given sort.
func validRecipeInput(title, sortSelector string) RecipeInput {
	return RecipeInput{
		Title:        title,
		SortSelector: sortSelector,
		CoffeeMass:   15.0,
		WaterMass:    250,
		WaterTemp:    93,
		Grinding:     2.5,
		Body:         "Bloom 30s, pour in circles.",
	}
}
