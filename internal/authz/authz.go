// Package authz is the single authorization checkpoint for mutating
// operations. It holds no state beyond the admin allowlist injected at
// startup and performs no I/O: every rule is a pure function of the acting
// identity and, where relevant, the target record's ownership.
package authz

import "github.com/mlutsenko/brewbook-be/internal/models"

// Identity is the acting subject of a request. The zero value is anonymous.
type Identity struct {
	ID    string
	Email string
}

// IsAnonymous reports whether the identity belongs to no authenticated user.
func (id Identity) IsAnonymous() bool {
	return id.ID == ""
}

// Authorizer evaluates the site's access rules against a read-only admin
// allowlist. The allowlist is fixed at construction and never mutated.
type Authorizer struct {
	admins map[string]struct{}
}

// New creates an Authorizer from the configured admin email addresses.
func New(adminEmails []string) *Authorizer {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[email] = struct{}{}
	}
	return &Authorizer{admins: admins}
}

// IsAdmin reports whether the identity's email is on the admin allowlist.
// Admin status is evaluated at the time of the action, never inherited from
// a record's creator.
func (a *Authorizer) IsAdmin(id Identity) bool {
	if id.IsAnonymous() {
		return false
	}
	_, ok := a.admins[id.Email]
	return ok
}

// CanCreateSort allows only admins to add new sorts.
func (a *Authorizer) CanCreateSort(id Identity) bool {
	return a.IsAdmin(id)
}

// CanEditOrDeleteSort allows only admins to modify or remove a sort. The
// sort's creator is irrelevant to this check.
func (a *Authorizer) CanEditOrDeleteSort(id Identity, _ models.Sort) bool {
	return a.IsAdmin(id)
}

// CanCreateRecipe allows any authenticated identity to publish a recipe.
func (a *Authorizer) CanCreateRecipe(id Identity) bool {
	return !id.IsAnonymous()
}

// CanEditRecipe allows only the recipe's author to edit it. Admins get no
// bypass here, unlike deletion.
func (a *Authorizer) CanEditRecipe(id Identity, recipe models.Recipe) bool {
	return !id.IsAnonymous() && id.ID == recipe.UserID
}

// CanDeleteRecipe allows the author or an admin to remove a recipe.
func (a *Authorizer) CanDeleteRecipe(id Identity, recipe models.Recipe) bool {
	if a.IsAdmin(id) {
		return true
	}
	return !id.IsAnonymous() && id.ID == recipe.UserID
}

// CanDeleteUser allows only admins to remove user accounts.
func (a *Authorizer) CanDeleteUser(id Identity) bool {
	return a.IsAdmin(id)
}

// CanViewDatabase allows only admins to see the aggregate listing.
func (a *Authorizer) CanViewDatabase(id Identity) bool {
	return a.IsAdmin(id)
}
