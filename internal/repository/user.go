package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/tilehub/tilehub-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrNothingToUpdate   = errors.New("no fields to update")
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// UserRepository handles user persistence operations. The unique keys on
// email and username are the final authority on uniqueness; any
// application-level pre-check only exists for friendlier error paths.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
// The email is normalized to lowercase and the username is trimmed before
// writing. A violated unique key maps to ErrDuplicateEmail or
// ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)
	if user.Role == "" {
		user.Role = "user"
	}

	query := `INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return dup
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// UpdateProfile updates the username and/or email of a user and returns the
// updated record. At least one field must be non-empty. Changing the email to
// one held by another user maps to ErrDuplicateEmail; updating a field to its
// current value is a no-op collision and succeeds.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, email string) (*model.User, error) {
	var sets []string
	var args []any

	if username != "" {
		sets = append(sets, "username = ?")
		args = append(args, strings.TrimSpace(username))
	}
	if email != "" {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(email)))
	}
	if len(sets) == 0 {
		return nil, ErrNothingToUpdate
	}

	args = append(args, id)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + `, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		// MySQL reports zero affected rows both for a missing record and for
		// a same-value update, so confirm existence with a read.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash of a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes a user record entirely.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// duplicateKeyError maps a MySQL duplicate-entry error (code 1062) to the
// sentinel for the violated key, or returns nil for any other error.
func duplicateKeyError(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return nil
	}
	if strings.Contains(mysqlErr.Message, "users_username_key") {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}
