package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `id, name, email, password_hash, role, bio, skills, company_name, location, avatar, created_at, updated_at`

type UserRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserRepositoryAdapter(db *sqlx.DB) *UserRepositoryAdapter {
	return &UserRepositoryAdapter{db: db}
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role),
		user.Profile.Bio, pq.StringArray(user.Profile.Skills), user.Profile.CompanyName,
		user.Profile.Location, user.Profile.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrEmailTaken
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать пользователя")
	}
	return nil
}

func (r *UserRepositoryAdapter) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, bio = $4, skills = $5, company_name = $6,
		location = $7, avatar = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Profile.Bio, pq.StringArray(user.Profile.Skills),
		user.Profile.CompanyName, user.Profile.Location, user.Profile.Avatar, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrEmailTaken
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить пользователя")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

func (r *UserRepositoryAdapter) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, entity.NormalizeEmail(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

func (r *UserRepositoryAdapter) List(ctx context.Context) ([]*entity.User, error) {
	var rows []userRow
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователей")
	}
	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toEntity())
	}
	return users, nil
}

type userRow struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	Bio          string         `db:"bio"`
	Skills       pq.StringArray `db:"skills"`
	CompanyName  string         `db:"company_name"`
	Location     string         `db:"location"`
	Avatar       string         `db:"avatar"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r *userRow) toEntity() *entity.User {
	skills := []string(r.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &entity.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         valueobject.Role(r.Role),
		Profile: entity.Profile{
			Bio:         r.Bio,
			Skills:      skills,
			CompanyName: r.CompanyName,
			Location:    r.Location,
			Avatar:      r.Avatar,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
