package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devsetgo/userbase/internal/database"
	"github.com/devsetgo/userbase/internal/models"
	"github.com/google/uuid"
)

// UserRepository performs filter/sort/paginate/CRUD operations on the users
// table. Every mutating operation commits (or rolls back) before returning.
type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, user_name, first_name, last_name, email, notes, password_hash,
		is_active, is_approved, is_admin, date_created, date_updated`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.UserName, &user.FirstName, &user.LastName,
		&user.Email, &user.Notes, &user.PasswordHash,
		&user.IsActive, &user.IsApproved, &user.IsAdmin,
		&user.DateCreated, &user.DateUpdated,
	)
	if err != nil {
		return nil, database.MapDriverError(err)
	}
	return &user, nil
}

// buildFilterClause translates a UserFilter into a WHERE clause. Substring
// fields wrap the value in wildcards, booleans compare for equality and date
// fields apply an inclusive floor.
func buildFilterClause(f models.UserFilter) (string, []any) {
	conds := make([]string, 0)
	args := make([]any, 0)

	like := func(column, value string) {
		conds = append(conds, column+" LIKE ?")
		args = append(args, "%"+value+"%")
	}

	if f.UserName != "" {
		like("user_name", f.UserName)
	}
	if f.FirstName != "" {
		like("first_name", f.FirstName)
	}
	if f.LastName != "" {
		like("last_name", f.LastName)
	}
	if f.Email != "" {
		like("email", f.Email)
	}
	if f.Notes != "" {
		like("notes", f.Notes)
	}
	if f.IsActive != nil {
		conds = append(conds, "is_active = ?")
		args = append(args, *f.IsActive)
	}
	if f.IsApproved != nil {
		conds = append(conds, "is_approved = ?")
		args = append(args, *f.IsApproved)
	}
	if f.IsAdmin != nil {
		conds = append(conds, "is_admin = ?")
		args = append(args, *f.IsAdmin)
	}
	if !f.CreatedSince.IsZero() {
		conds = append(conds, "date_created >= ?")
		args = append(args, f.CreatedSince)
	}
	if !f.UpdatedSince.IsZero() {
		conds = append(conds, "date_updated >= ?")
		args = append(args, f.UpdatedSince)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// parseOrderBy validates a "<field>:<direction>" string against the sortable
// field whitelist. An unrecognized direction defaults to ascending.
func parseOrderBy(orderBy string) (string, error) {
	field, direction, _ := strings.Cut(orderBy, ":")
	if !models.SortableUserFields[field] {
		return "", fmt.Errorf("%w: cannot order by %q", models.ErrBadRequest, field)
	}
	if strings.EqualFold(direction, "desc") {
		return " ORDER BY " + field + " DESC", nil
	}
	return " ORDER BY " + field + " ASC", nil
}

// List returns users matching the filter, in arbitrary order unless OrderBy
// is set. Limit is clamped to models.MaxListLimit regardless of the request;
// a zero limit means an empty page, only negative values fall back to the
// default.
func (r *UserRepository) List(ctx context.Context, params models.ListParams) ([]*models.User, error) {
	where, args := buildFilterClause(params.Filter)
	query := "SELECT " + userColumns + " FROM users" + where

	if params.OrderBy != "" {
		orderClause, err := parseOrderBy(params.OrderBy)
		if err != nil {
			return nil, err
		}
		query += orderClause
	}

	limit := params.Limit
	if limit < 0 {
		limit = models.DefaultListLimit
	}
	if limit > models.MaxListLimit {
		limit = models.MaxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.SQL.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", database.MapDriverError(err))
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// Count returns the number of rows matching the filter, independent of the
// page window.
func (r *UserRepository) Count(ctx context.Context, filter models.UserFilter) (int, error) {
	where, args := buildFilterClause(filter)
	query := "SELECT COUNT(id) FROM users" + where

	var count int
	err := r.db.SQL.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", database.MapDriverError(err))
	}
	return count, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	return scanUserRow(r.db.SQL.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE email = ?")
	return scanUserRow(r.db.SQL.QueryRowContext(ctx, query, email))
}

// Create inserts a new row with a generated id. Timestamps are server-set
// unless the caller staged historical values (demo data seeding does).
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now().UTC()
	if user.DateCreated.IsZero() {
		user.DateCreated = now
	}
	if user.DateUpdated.IsZero() {
		user.DateUpdated = user.DateCreated
	}

	query := r.db.Rebind(`INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.SQL.ExecContext(ctx, query,
		user.ID, user.UserName, user.FirstName, user.LastName,
		user.Email, user.Notes, user.PasswordHash,
		user.IsActive, user.IsApproved, user.IsAdmin,
		user.DateCreated, user.DateUpdated,
	)
	if err != nil {
		return nil, database.MapDriverError(err)
	}

	return user, nil
}

// Update applies the given state to an existing row and returns it with a
// refreshed date_updated. The write and the existence check share one
// transaction so a failed commit never leaves a half-applied row.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.DateUpdated = time.Now().UTC()

	var updated *models.User
	err := r.db.WithTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		query := r.db.Rebind(`UPDATE users
			SET first_name = ?, last_name = ?, email = ?, notes = ?,
				is_active = ?, is_approved = ?, is_admin = ?, date_updated = ?
			WHERE id = ?`)

		result, err := tx.ExecContext(ctx, query,
			user.FirstName, user.LastName, user.Email, user.Notes,
			user.IsActive, user.IsApproved, user.IsAdmin, user.DateUpdated, id,
		)
		if err != nil {
			return database.MapDriverError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return models.ErrNotFound
		}

		selectQuery := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
		updated, err = scanUserRow(tx.QueryRowContext(ctx, selectQuery, id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a row by id. A missing id is not an error; the boolean
// reports whether a row was removed.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := r.db.Rebind("DELETE FROM users WHERE id = ?")

	result, err := r.db.SQL.ExecContext(ctx, query, id)
	if err != nil {
		return false, database.MapDriverError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
