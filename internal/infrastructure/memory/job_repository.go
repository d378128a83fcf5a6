package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type JobRepository struct {
	s *Store
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	if _, exists := r.s.jobs[job.ID]; exists {
		return apperror.ErrDuplicate
	}
	r.s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	current, ok := r.s.jobs[job.ID]
	if !ok {
		return apperror.ErrJobNotFound
	}
	if !current.IsOpen() {
		return apperror.ErrStatusMismatch
	}
	current.Title = job.Title
	current.Description = job.Description
	current.Budget = job.Budget
	current.Deadline = job.Deadline
	current.RequiredSkills = cloneStrings(job.RequiredSkills)
	current.UpdatedAt = job.UpdatedAt
	r.s.jobs[job.ID] = current
	return nil
}

// Delete удаляет открытый заказ вместе с предложениями по нему.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	j, ok := r.s.jobs[id]
	if !ok {
		return apperror.ErrJobNotFound
	}
	if !j.IsOpen() {
		return apperror.ErrStatusMismatch
	}
	delete(r.s.jobs, id)
	for pid, p := range r.s.proposals {
		if p.JobID == id {
			delete(r.s.proposals, pid)
		}
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperror.ErrJobNotFound
	}
	out := cloneJob(j)
	return &out, nil
}

func (r *JobRepository) List(ctx context.Context) ([]*entity.Job, error) {
	return r.filter(ctx, func(*entity.Job) bool { return true })
}

func (r *JobRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Job, error) {
	return r.filter(ctx, func(j *entity.Job) bool { return j.ClientID == clientID })
}

func (r *JobRepository) FindOpenBySkills(ctx context.Context, skills []string) ([]*entity.Job, error) {
	return r.filter(ctx, func(j *entity.Job) bool { return j.IsOpen() && j.MatchesSkills(skills) })
}

func (r *JobRepository) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.JobStatus) (*entity.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperror.ErrJobNotFound
	}
	if j.Status != from {
		return nil, apperror.ErrStatusMismatch
	}
	j.Status = to
	j.UpdatedAt = time.Now().UTC()
	r.s.jobs[id] = j
	out := cloneJob(j)
	return &out, nil
}

func (r *JobRepository) filter(ctx context.Context, keep func(*entity.Job) bool) ([]*entity.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	jobs := make([]*entity.Job, 0)
	for _, j := range r.s.jobs {
		out := cloneJob(j)
		if keep(&out) {
			jobs = append(jobs, &out)
		}
	}
	sortNewestFirst(jobs, func(j *entity.Job) (int64, string) {
		return j.CreatedAt.UnixNano(), j.ID.String()
	})
	return jobs, nil
}

func cloneJob(j entity.Job) entity.Job {
	j.RequiredSkills = cloneStrings(j.RequiredSkills)
	return j
}
