package gen

import (
	"context"
	"database/sql"
)

const userColumns = `id, username, email, password_hash, is_admin, profile_image_url, wants_emails, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.ProfileImageUrl,
		&u.WantsEmails,
		&u.CreatedAt,
	)
	return u, err
}

const createUser = `-- name: CreateUser :execlastid
INSERT INTO users (username, email, password_hash, is_admin, wants_emails)
VALUES (?, ?, ?, ?, ?)`

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	WantsEmails  bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.IsAdmin,
		arg.WantsEmails,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT ` + userColumns + ` FROM users WHERE username = ?`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users ORDER BY id`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const updateUserProfile = `-- name: UpdateUserProfile :execrows
UPDATE users SET username = ?, password_hash = ?, wants_emails = ? WHERE id = ?`

type UpdateUserProfileParams struct {
	Username     string
	PasswordHash string
	WantsEmails  bool
	ID           int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUserProfile, arg.Username, arg.PasswordHash, arg.WantsEmails, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateUserProfileImage = `-- name: UpdateUserProfileImage :execrows
UPDATE users SET profile_image_url = ? WHERE id = ?`

func (q *Queries) UpdateUserProfileImage(ctx context.Context, url sql.NullString, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUserProfileImage, url, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateUserPasswordHash = `-- name: UpdateUserPasswordHash :execrows
UPDATE users SET password_hash = ? WHERE id = ?`

func (q *Queries) UpdateUserPasswordHash(ctx context.Context, hash string, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUserPasswordHash, hash, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
