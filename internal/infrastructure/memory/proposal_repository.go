package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type ProposalRepository struct {
	s *Store
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *entity.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	job, ok := r.s.jobs[proposal.JobID]
	if !ok {
		return apperror.ErrJobNotFound
	}
	if !job.IsOpen() {
		return apperror.ErrJobNotOpen
	}
	for _, p := range r.s.proposals {
		if p.JobID == proposal.JobID && p.FreelancerID == proposal.FreelancerID {
			return apperror.ErrDuplicate
		}
	}
	r.s.proposals[proposal.ID] = *proposal
	return nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	return &p, nil
}

func (r *ProposalRepository) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.Proposal, error) {
	return r.filter(ctx, func(p *entity.Proposal) bool { return p.JobID == jobID })
}

func (r *ProposalRepository) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Proposal, error) {
	return r.filter(ctx, func(p *entity.Proposal) bool { return p.FreelancerID == freelancerID })
}

func (r *ProposalRepository) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*entity.Proposal, error) {
	found, err := r.filter(ctx, func(p *entity.Proposal) bool {
		return p.JobID == jobID && p.FreelancerID == freelancerID
	})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (r *ProposalRepository) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.ProposalStatus) (*entity.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	if p.Status != from {
		return nil, apperror.ErrStatusMismatch
	}
	if to == valueobject.ProposalStatusAccepted {
		for otherID, other := range r.s.proposals {
			if otherID != id && other.JobID == p.JobID && other.IsAccepted() {
				return nil, apperror.ErrStatusMismatch
			}
		}
	}
	p.Status = to
	p.UpdatedAt = time.Now().UTC()
	r.s.proposals[id] = p
	return &p, nil
}

func (r *ProposalRepository) filter(ctx context.Context, keep func(*entity.Proposal) bool) ([]*entity.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	proposals := make([]*entity.Proposal, 0)
	for _, p := range r.s.proposals {
		if keep(&p) {
			proposals = append(proposals, &p)
		}
	}
	sortNewestFirst(proposals, func(p *entity.Proposal) (int64, string) {
		return p.CreatedAt.UnixNano(), p.ID.String()
	})
	return proposals, nil
}
