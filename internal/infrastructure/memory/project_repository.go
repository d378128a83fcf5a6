package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type ProjectRepository struct {
	s *Store
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	for _, p := range r.s.projects {
		if p.JobID == project.JobID {
			return apperror.ErrDuplicate
		}
	}
	r.s.projects[project.ID] = *project
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	return &p, nil
}

func (r *ProjectRepository) FindByJobID(ctx context.Context, jobID uuid.UUID) (*entity.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	for _, p := range r.s.projects {
		if p.JobID == jobID {
			return &p, nil
		}
	}
	return nil, apperror.ErrProjectNotFound
}

func (r *ProjectRepository) ListDetailedByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectDetails, error) {
	return r.details(ctx, func(p *entity.Project) bool { return p.ClientID == clientID })
}

func (r *ProjectRepository) ListDetailedByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.ProjectDetails, error) {
	return r.details(ctx, func(p *entity.Project) bool { return p.FreelancerID == freelancerID })
}

func (r *ProjectRepository) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.ProjectStatus) (*entity.Project, error) {
	return r.update(ctx, id, func(p *entity.Project) bool {
		if p.Status != from {
			return false
		}
		p.Status = to
		return true
	})
}

func (r *ProjectRepository) UpdatePaymentStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.PaymentStatus) (*entity.Project, error) {
	return r.update(ctx, id, func(p *entity.Project) bool {
		if p.PaymentStatus != from {
			return false
		}
		p.PaymentStatus = to
		return true
	})
}

func (r *ProjectRepository) update(ctx context.Context, id uuid.UUID, apply func(*entity.Project) bool) (*entity.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	if !apply(&p) {
		return nil, apperror.ErrStatusMismatch
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.projects[id] = p
	return &p, nil
}

// details собирает проекты с данными заказа и участников; проекты с
// отсутствующими связанными записями пропускаются, как при INNER JOIN.
func (r *ProjectRepository) details(ctx context.Context, keep func(*entity.Project) bool) ([]*entity.ProjectDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	result := make([]*entity.ProjectDetails, 0)
	for _, p := range r.s.projects {
		if !keep(&p) {
			continue
		}
		job, okJob := r.s.jobs[p.JobID]
		freelancer, okF := r.s.users[p.FreelancerID]
		client, okC := r.s.users[p.ClientID]
		if !okJob || !okF || !okC {
			continue
		}
		result = append(result, &entity.ProjectDetails{
			Project: p,
			Job: entity.JobSummary{
				ID:          job.ID,
				Title:       job.Title,
				Description: job.Description,
				Budget:      job.Budget,
				Deadline:    job.Deadline,
			},
			Freelancer: freelancer.Summary(),
			Client:     client.Summary(),
		})
	}
	sortNewestFirst(result, func(d *entity.ProjectDetails) (int64, string) {
		return d.Project.CreatedAt.UnixNano(), d.Project.ID.String()
	})
	return result, nil
}
