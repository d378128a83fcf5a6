package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	if r.emailTaken(user.Email, uuid.Nil) {
		return apperror.ErrEmailTaken
	}
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	current, ok := r.s.users[user.ID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return apperror.ErrEmailTaken
	}
	updated := cloneUser(*user)
	updated.PasswordHash = current.PasswordHash
	updated.Role = current.Role
	updated.CreatedAt = current.CreatedAt
	r.s.users[user.ID] = updated
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	email = entity.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out := cloneUser(u)
		users = append(users, &out)
	}
	sortNewestFirst(users, func(u *entity.User) (int64, string) {
		return u.CreatedAt.UnixNano(), u.ID.String()
	})
	return users, nil
}

func (r *UserRepository) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range r.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func cloneUser(u entity.User) entity.User {
	u.Profile.Skills = cloneStrings(u.Profile.Skills)
	return u
}
