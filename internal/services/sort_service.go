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

// SortServiceProvider defines the interface for sort management.
type SortServiceProvider interface {
	GetAllSorts() ([]models.Sort, error)
	GetSortByID(id string) (models.Sort, error)
	ResolveSort(selector string) (models.Sort, error)
	CreateSort(actor authz.Identity, title, bouquet, description string) (models.Sort, error)
	UpdateSort(actor authz.Identity, id, bouquet, description string) (models.Sort, error)
	DeleteSort(actor authz.Identity, id string) error
}

// SortService provides business logic for the admin-curated sort catalog.
type SortService struct {
	db       *sql.DB
	authz    *authz.Authorizer
	activity ActivityServiceProvider
}

// NewSortService creates a new SortService.
func NewSortService(db *sql.DB, authorizer *authz.Authorizer, activity ActivityServiceProvider) *SortService {
	return &SortService{db: db, authz: authorizer, activity: activity}
}

// scanSort is a helper to scan a sort from a row or rows object.
func scanSort(scanner interface{ Scan(...interface{}) error }) (models.Sort, error) {
	var sort models.Sort
	var bouquet, description sql.NullString
	err := scanner.Scan(&sort.ID, &sort.Title, &bouquet, &description, &sort.UserID, &sort.CreatedAt)
	if err != nil {
		return sort, err
	}
	sort.Bouquet = bouquet.String
	sort.Description = description.String
	return sort, nil
}

// GetAllSorts retrieves every sort, newest first.
func (s *SortService) GetAllSorts() ([]models.Sort, error) {
	rows, err := s.db.Query(
		"SELECT id, title, bouquet, description, user_id, created_at FROM sorts ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sorts []models.Sort
	for rows.Next() {
		sort, err := scanSort(rows)
		if err != nil {
			return nil, err
		}
		sorts = append(sorts, sort)
	}
	return sorts, rows.Err()
}

// GetSortByID retrieves a single sort by its ID.
func (s *SortService) GetSortByID(id string) (models.Sort, error) {
	row := s.db.QueryRow(
		"SELECT id, title, bouquet, description, user_id, created_at FROM sorts WHERE id = ?", id,
	)
	sort, err := scanSort(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Sort{}, ErrNotFound
		}
		return models.Sort{}, err
	}
	return sort, nil
}

// ResolveSort resolves a recipe's sort selector to a sort record. The
// selector is tried as an id first; when no row matches it falls back to an
// exact title match, which keeps the original select-widget value format
// working. Both misses collapse into ErrUnknownSort.
func (s *SortService) ResolveSort(selector string) (models.Sort, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return models.Sort{}, ErrUnknownSort
	}

	sort, err := s.GetSortByID(selector)
	if err == nil {
		return sort, nil
	}
	if err != ErrNotFound {
		return models.Sort{}, err
	}

	row := s.db.QueryRow(
		"SELECT id, title, bouquet, description, user_id, created_at FROM sorts WHERE title = ?", selector,
	)
	sort, err = scanSort(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Sort{}, ErrUnknownSort
		}
		return models.Sort{}, err
	}
	return sort, nil
}

// CreateSort adds a new sort to the catalog. Admin only.
func (s *SortService) CreateSort(actor authz.Identity, title, bouquet, description string) (models.Sort, error) {
	if !s.authz.CanCreateSort(actor) {
		return models.Sort{}, ErrAccessDenied
	}

	title = strings.TrimSpace(title)
	if title == "" || bouquet == "" || description == "" {
		return models.Sort{}, fmt.Errorf("%w: title, bouquet and description are required", ErrValidation)
	}

	sort := models.Sort{
		ID:          uuid.New().String(),
		Title:       title,
		Bouquet:     bouquet,
		Description: description,
		UserID:      actor.ID,
	}

	_, err := s.db.Exec(
		"INSERT INTO sorts(id, title, bouquet, description, user_id) VALUES(?, ?, ?, ?, ?)",
		sort.ID, sort.Title, sort.Bouquet, sort.Description, sort.UserID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.Sort{}, ErrDuplicateTitle
		}
		return models.Sort{}, err
	}

	if s.activity != nil {
		s.activity.Record("sort.created", "info", fmt.Sprintf("New sort %q added", sort.Title), &sort.ID)
	}
	return s.GetSortByID(sort.ID)
}

// UpdateSort changes a sort's bouquet and description. The title is immutable
// and never touched by this path. Admin only.
func (s *SortService) UpdateSort(actor authz.Identity, id, bouquet, description string) (models.Sort, error) {
	sort, err := s.GetSortByID(id)
	if err != nil {
		return models.Sort{}, err
	}
	if !s.authz.CanEditOrDeleteSort(actor, sort) {
		return models.Sort{}, ErrAccessDenied
	}
	if bouquet == "" || description == "" {
		return models.Sort{}, fmt.Errorf("%w: bouquet and description are required", ErrValidation)
	}

	_, err = s.db.Exec("UPDATE sorts SET bouquet = ?, description = ? WHERE id = ?", bouquet, description, id)
	if err != nil {
		return models.Sort{}, err
	}
	return s.GetSortByID(id)
}

// DeleteSort removes a sort and every recipe classified under it, recipes
// first, inside one transaction. Admin only.
func (s *SortService) DeleteSort(actor authz.Identity, id string) error {
	sort, err := s.GetSortByID(id)
	if err != nil {
		return err
	}
	if !s.authz.CanEditOrDeleteSort(actor, sort) {
		return ErrAccessDenied
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM recipes WHERE sort_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM sorts WHERE id = ?", id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.Record("sort.deleted", "warn", fmt.Sprintf("Sort %q and its recipes were removed", sort.Title), &id)
	}
	return nil
}
