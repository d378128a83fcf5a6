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

const proposalColumns = `id, job_id, freelancer_id, proposal_text, estimated_cost, delivery_time, status, created_at, updated_at`

type ProposalRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProposalRepositoryAdapter(db *sqlx.DB) *ProposalRepositoryAdapter {
	return &ProposalRepositoryAdapter{db: db}
}

// Create вставляет предложение, только пока заказ открыт. FOR SHARE ждёт
// конкурирующего принятия и перепроверяет статус после его фиксации.
func (r *ProposalRepositoryAdapter) Create(ctx context.Context, proposal *entity.Proposal) error {
	query := `
		INSERT INTO proposals (` + proposalColumns + `)
		SELECT $1::uuid, j.id, $3::uuid, $4::text, $5::numeric, $6::text, $7::text, $8::timestamptz, $9::timestamptz
		FROM jobs j
		WHERE j.id = $2 AND j.status = $10
		FOR SHARE OF j
	`
	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		proposal.ID, proposal.JobID, proposal.FreelancerID, proposal.ProposalText,
		proposal.EstimatedCost.Float64(), proposal.DeliveryTime, string(proposal.Status),
		proposal.CreatedAt, proposal.UpdatedAt, string(valueobject.JobStatusOpen),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicate
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
	}
	if n > 0 {
		return nil
	}

	var status string
	err = sqlx.GetContext(ctx, executor(ctx, r.db), &status, `SELECT status FROM jobs WHERE id = $1`, proposal.JobID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.ErrJobNotFound
	}
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return apperror.ErrJobNotOpen
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE job_id = $1 ORDER BY created_at DESC`
	return r.selectProposals(ctx, query, jobID)
}

func (r *ProposalRepositoryAdapter) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC`
	return r.selectProposals(ctx, query, freelancerID)
}

func (r *ProposalRepositoryAdapter) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE job_id = $1 AND freelancer_id = $2`
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, jobID, freelancerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.ProposalStatus) (*entity.Proposal, error) {
	var row proposalRow
	query := `
		UPDATE proposals SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + proposalColumns
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, id, string(from), string(to), time.Now().UTC())
	if err == nil {
		return row.toEntity(), nil
	}
	if isUniqueViolation(err) {
		// на заказ уже принято другое предложение
		return nil, apperror.ErrStatusMismatch
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус предложения")
	}
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, apperror.ErrStatusMismatch
}

func (r *ProposalRepositoryAdapter) selectProposals(ctx context.Context, query string, args ...interface{}) ([]*entity.Proposal, error) {
	var rows []proposalRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}
	proposals := make([]*entity.Proposal, 0, len(rows))
	for i := range rows {
		proposals = append(proposals, rows[i].toEntity())
	}
	return proposals, nil
}

type proposalRow struct {
	ID            uuid.UUID `db:"id"`
	JobID         uuid.UUID `db:"job_id"`
	FreelancerID  uuid.UUID `db:"freelancer_id"`
	ProposalText  string    `db:"proposal_text"`
	EstimatedCost float64   `db:"estimated_cost"`
	DeliveryTime  string    `db:"delivery_time"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *proposalRow) toEntity() *entity.Proposal {
	return &entity.Proposal{
		ID:            r.ID,
		JobID:         r.JobID,
		FreelancerID:  r.FreelancerID,
		ProposalText:  r.ProposalText,
		EstimatedCost: valueobject.Money(r.EstimatedCost),
		DeliveryTime:  r.DeliveryTime,
		Status:        valueobject.ProposalStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
