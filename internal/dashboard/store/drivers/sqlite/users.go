package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/domain"
)

type usersRepo struct {
	q *queries
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.getUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row)
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.q.existsByEmail(ctx, email)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	err := r.q.createUser(ctx, userRow{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339Nano),
	})
	return mapConstraint(err)
}
