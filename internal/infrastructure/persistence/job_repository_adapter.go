package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const jobColumns = `id, client_id, title, description, budget, deadline, required_skills, status, created_at, updated_at`

type JobRepositoryAdapter struct {
	db *sqlx.DB
}

func NewJobRepositoryAdapter(db *sqlx.DB) *JobRepositoryAdapter {
	return &JobRepositoryAdapter{db: db}
}

func (r *JobRepositoryAdapter) Create(ctx context.Context, job *entity.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		job.ID, job.ClientID, job.Title, job.Description, job.Budget.Float64(), job.Deadline,
		pq.StringArray(job.RequiredSkills), string(job.Status), job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}
	return nil
}

// Update сохраняет редактируемые поля открытого заказа. Статус меняется только через UpdateStatusIfMatch.
func (r *JobRepositoryAdapter) Update(ctx context.Context, job *entity.Job) error {
	query := `
		UPDATE jobs SET title = $2, description = $3, budget = $4, deadline = $5,
		required_skills = $6, updated_at = $7
		WHERE id = $1 AND status = $8
	`
	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		job.ID, job.Title, job.Description, job.Budget.Float64(), job.Deadline,
		pq.StringArray(job.RequiredSkills), job.UpdatedAt, string(valueobject.JobStatusOpen),
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заказ")
	}
	return r.checkAffected(ctx, res, job.ID)
}

func (r *JobRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM jobs WHERE id = $1 AND status = $2`, id, string(valueobject.JobStatusOpen))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить заказ")
	}
	return r.checkAffected(ctx, res, id)
}

// checkAffected различает отсутствие заказа и смену его статуса, когда условная запись не затронула строк.
func (r *JobRepositoryAdapter) checkAffected(ctx context.Context, res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить результат запроса")
	}
	if n > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperror.ErrStatusMismatch
}

func (r *JobRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var row jobRow
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return row.toEntity(), nil
}

func (r *JobRepositoryAdapter) List(ctx context.Context) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC`
	return r.selectJobs(ctx, query)
}

func (r *JobRepositoryAdapter) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE client_id = $1 ORDER BY created_at DESC`
	return r.selectJobs(ctx, query, clientID)
}

func (r *JobRepositoryAdapter) FindOpenBySkills(ctx context.Context, skills []string) ([]*entity.Job, error) {
	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		lowered = append(lowered, strings.ToLower(s))
	}
	query := `
		SELECT ` + jobColumns + ` FROM jobs
		WHERE status = $1 AND EXISTS (
			SELECT 1 FROM unnest(required_skills) AS s WHERE lower(s) = ANY($2)
		)
		ORDER BY created_at DESC
	`
	return r.selectJobs(ctx, query, string(valueobject.JobStatusOpen), pq.StringArray(lowered))
}

func (r *JobRepositoryAdapter) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.JobStatus) (*entity.Job, error) {
	var row jobRow
	query := `
		UPDATE jobs SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + jobColumns
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, id, string(from), string(to), time.Now().UTC())
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
	}
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, apperror.ErrStatusMismatch
}

func (r *JobRepositoryAdapter) selectJobs(ctx context.Context, query string, args ...interface{}) ([]*entity.Job, error) {
	var rows []jobRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказы")
	}
	jobs := make([]*entity.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].toEntity())
	}
	return jobs, nil
}

type jobRow struct {
	ID             uuid.UUID      `db:"id"`
	ClientID       uuid.UUID      `db:"client_id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	Budget         float64        `db:"budget"`
	Deadline       time.Time      `db:"deadline"`
	RequiredSkills pq.StringArray `db:"required_skills"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r *jobRow) toEntity() *entity.Job {
	skills := []string(r.RequiredSkills)
	if skills == nil {
		skills = []string{}
	}
	return &entity.Job{
		ID:             r.ID,
		ClientID:       r.ClientID,
		Title:          r.Title,
		Description:    r.Description,
		Budget:         valueobject.Money(r.Budget),
		Deadline:       r.Deadline,
		RequiredSkills: skills,
		Status:         valueobject.JobStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
