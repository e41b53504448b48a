package sqlite

import (
	"context"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	id, err := r.q.CreateUser(ctx, gen.CreateUserParams{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		WantsEmails:  u.WantsEmails,
	})
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapUser(row))
	}
	return users, nil
}

func (r *usersRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	n, err := r.q.UpdateUserProfile(ctx, gen.UpdateUserProfileParams{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		WantsEmails:  u.WantsEmails,
		ID:           u.ID,
	})
	if err != nil {
		return mapConstraint(err)
	}
	return mustAffect(n, nil)
}

func (r *usersRepo) UpdateProfileImage(ctx context.Context, userID int64, url string) error {
	return mustAffect(r.q.UpdateUserProfileImage(ctx, mapStringNull(url), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return mustAffect(r.q.UpdateUserPasswordHash(ctx, hash, userID))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID int64) error {
	return mustAffect(r.q.DeleteUser(ctx, userID))
}

func mapUser(u gen.User) domain.User {
	return domain.User{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		IsAdmin:         u.IsAdmin,
		ProfileImageURL: mapNullString(u.ProfileImageUrl),
		WantsEmails:     u.WantsEmails,
		CreatedAt:       u.CreatedAt,
	}
}
