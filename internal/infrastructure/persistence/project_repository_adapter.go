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
)

const projectColumns = `id, job_id, freelancer_id, client_id, status, payment_status, created_at, updated_at`

const projectDetailsQuery = `
	SELECT p.id, p.job_id, p.freelancer_id, p.client_id, p.status, p.payment_status,
	p.created_at, p.updated_at,
	j.title AS job_title, j.description AS job_description, j.budget AS job_budget,
	j.deadline AS job_deadline,
	f.name AS freelancer_name, f.email AS freelancer_email,
	c.name AS client_name, c.email AS client_email
	FROM projects p
	JOIN jobs j ON j.id = p.job_id
	JOIN users f ON f.id = p.freelancer_id
	JOIN users c ON c.id = p.client_id
`

type ProjectRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProjectRepositoryAdapter(db *sqlx.DB) *ProjectRepositoryAdapter {
	return &ProjectRepositoryAdapter{db: db}
}

func (r *ProjectRepositoryAdapter) Create(ctx context.Context, project *entity.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		project.ID, project.JobID, project.FreelancerID, project.ClientID,
		string(project.Status), string(project.PaymentStatus), project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicate
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать проект")
	}
	return nil
}

func (r *ProjectRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return r.getProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

func (r *ProjectRepositoryAdapter) FindByJobID(ctx context.Context, jobID uuid.UUID) (*entity.Project, error) {
	return r.getProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE job_id = $1`, jobID)
}

func (r *ProjectRepositoryAdapter) ListDetailedByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectDetails, error) {
	return r.selectDetails(ctx, projectDetailsQuery+` WHERE p.client_id = $1 ORDER BY p.created_at DESC`, clientID)
}

func (r *ProjectRepositoryAdapter) ListDetailedByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.ProjectDetails, error) {
	return r.selectDetails(ctx, projectDetailsQuery+` WHERE p.freelancer_id = $1 ORDER BY p.created_at DESC`, freelancerID)
}

func (r *ProjectRepositoryAdapter) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.ProjectStatus) (*entity.Project, error) {
	return r.updateIfMatch(ctx, "status", id, string(from), string(to))
}

func (r *ProjectRepositoryAdapter) UpdatePaymentStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.PaymentStatus) (*entity.Project, error) {
	return r.updateIfMatch(ctx, "payment_status", id, string(from), string(to))
}

// updateIfMatch: column всегда задаётся внутри пакета, не из пользовательского ввода.
func (r *ProjectRepositoryAdapter) updateIfMatch(ctx context.Context, column string, id uuid.UUID, from, to string) (*entity.Project, error) {
	var row projectRow
	query := `
		UPDATE projects SET ` + column + ` = $3, updated_at = $4
		WHERE id = $1 AND ` + column + ` = $2
		RETURNING ` + projectColumns
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, id, from, to, time.Now().UTC())
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить проект")
	}
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, apperror.ErrStatusMismatch
}

func (r *ProjectRepositoryAdapter) getProject(ctx context.Context, query string, arg interface{}) (*entity.Project, error) {
	var row projectRow
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проект")
	}
	return row.toEntity(), nil
}

func (r *ProjectRepositoryAdapter) selectDetails(ctx context.Context, query string, args ...interface{}) ([]*entity.ProjectDetails, error) {
	var rows []projectDetailsRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
	}
	details := make([]*entity.ProjectDetails, 0, len(rows))
	for i := range rows {
		details = append(details, rows[i].toEntity())
	}
	return details, nil
}

type projectRow struct {
	ID            uuid.UUID `db:"id"`
	JobID         uuid.UUID `db:"job_id"`
	FreelancerID  uuid.UUID `db:"freelancer_id"`
	ClientID      uuid.UUID `db:"client_id"`
	Status        string    `db:"status"`
	PaymentStatus string    `db:"payment_status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *projectRow) toEntity() *entity.Project {
	return &entity.Project{
		ID:            r.ID,
		JobID:         r.JobID,
		FreelancerID:  r.FreelancerID,
		ClientID:      r.ClientID,
		Status:        valueobject.ProjectStatus(r.Status),
		PaymentStatus: valueobject.PaymentStatus(r.PaymentStatus),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type projectDetailsRow struct {
	projectRow
	JobTitle        string    `db:"job_title"`
	JobDescription  string    `db:"job_description"`
	JobBudget       float64   `db:"job_budget"`
	JobDeadline     time.Time `db:"job_deadline"`
	FreelancerName  string    `db:"freelancer_name"`
	FreelancerEmail string    `db:"freelancer_email"`
	ClientName      string    `db:"client_name"`
	ClientEmail     string    `db:"client_email"`
}

func (r *projectDetailsRow) toEntity() *entity.ProjectDetails {
	return &entity.ProjectDetails{
		Project: *r.projectRow.toEntity(),
		Job: entity.JobSummary{
			ID:          r.JobID,
			Title:       r.JobTitle,
			Description: r.JobDescription,
			Budget:      valueobject.Money(r.JobBudget),
			Deadline:    r.JobDeadline,
		},
		Freelancer: entity.UserSummary{ID: r.FreelancerID, Name: r.FreelancerName, Email: r.FreelancerEmail},
		Client:     entity.UserSummary{ID: r.ClientID, Name: r.ClientName, Email: r.ClientEmail},
	}
}
