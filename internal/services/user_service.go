package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mlutsenko/brewbook-be/internal/authz"
	"github.com/mlutsenko/brewbook-be/internal/database"
	"github.com/mlutsenko/brewbook-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for identity and credential
// management.
type UserServiceProvider interface {
	Register(username, email, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	UpdatePassword(actor authz.Identity, currentPassword, newPassword string) error
	GetUserByID(id string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	DeleteUser(actor authz.Identity, id string) error
}

// UserService provides business logic for user accounts. DeleteUser also owns
// the user's slice of the content graph: removing an account removes every
// sort and recipe that would otherwise dangle.
type UserService struct {
	db       *sql.DB
	authz    *authz.Authorizer
	activity ActivityServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, authorizer *authz.Authorizer, activity ActivityServiceProvider) *UserService {
	return &UserService{db: db, authz: authorizer, activity: activity}
}

// Register creates a new user, hashing their password. Username and email are
// immutable after this point.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: malformed email", ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrDuplicateIdentity
		}
		return models.User{}, err
	}

	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials by username. Unknown username
// and wrong password are deliberately indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?",
		username,
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't hand the hash back to the caller
	user.PasswordHash = ""
	return user, nil
}

// UpdatePassword verifies the actor's current password, then hashes and sets
// a new one. Other sessions of the same user stay valid.
func (s *UserService) UpdatePassword(actor authz.Identity, currentPassword, newPassword string) error {
	if actor.IsAnonymous() {
		return ErrAccessDenied
	}
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}

	var storedHash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", actor.ID)
	if err := row.Scan(&storedHash); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), actor.ID)
	return err
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetAllUsers retrieves every registered user, newest first.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, username, email, created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes a user account and everything it authored. Children go
// first: recipes classified under the user's sorts, the sorts themselves, the
// user's own recipes, then the user row — all inside one transaction so no
// reader ever observes an orphaned row.
func (s *UserService) DeleteUser(actor authz.Identity, id string) error {
	if !s.authz.CanDeleteUser(actor) {
		return ErrAccessDenied
	}

	var username string
	row := s.db.QueryRow("SELECT username FROM users WHERE id = ?", id)
	if err := row.Scan(&username); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM recipes WHERE sort_id IN (SELECT id FROM sorts WHERE user_id = ?)", id); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM sorts WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM recipes WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.Record("user.deleted", "warn", fmt.Sprintf("User %q was removed", username), &id)
	}
	return nil
}
