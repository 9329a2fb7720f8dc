package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/userdock/userdock/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyPatch   = errors.New("no fields to update")
)

// UserPatch describes a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

// IsEmpty reports whether the patch carries no fields.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// InsertUser persists a new user row and returns it with the assigned id.
func (r *Repository) InsertUser(ctx context.Context, name, email string) (*model.User, error) {
	query := `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING id
	`

	user := &model.User{Name: name, Email: email}
	if err := r.pool.QueryRow(ctx, query, name, email).Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// ListUsers returns all user rows ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, name, email
		FROM users
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetUserByID retrieves a user by their id.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, name, email
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// UpdateUser applies the supplied fields to an existing user row.
// Columns not present in the patch keep their current values.
func (r *Repository) UpdateUser(ctx context.Context, id int64, patch UserPatch) error {
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	query := "UPDATE users SET "
	args := []any{id}
	argIndex := 2

	if patch.Name != nil {
		query += fmt.Sprintf("name = $%d", argIndex)
		args = append(args, *patch.Name)
		argIndex++
	}

	if patch.Email != nil {
		if patch.Name != nil {
			query += ", "
		}
		query += fmt.Sprintf("email = $%d", argIndex)
		args = append(args, *patch.Email)
		argIndex++
	}

	query += " WHERE id = $1"

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes a user row. Deletion is physical and immediate.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
