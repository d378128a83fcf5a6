// Package memory - хранилище в памяти процесса с теми же гарантиями,
// что и адаптеры PostgreSQL: условные обновления и атомарные транзакции.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
)

type txKey struct{}

type Store struct {
	mu        sync.Mutex
	users     map[uuid.UUID]entity.User
	jobs      map[uuid.UUID]entity.Job
	proposals map[uuid.UUID]entity.Proposal
	projects  map[uuid.UUID]entity.Project
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]entity.User),
		jobs:      make(map[uuid.UUID]entity.Job),
		proposals: make(map[uuid.UUID]entity.Proposal),
		projects:  make(map[uuid.UUID]entity.Project),
	}
}

func (s *Store) Users() *UserRepository         { return &UserRepository{s: s} }
func (s *Store) Jobs() *JobRepository           { return &JobRepository{s: s} }
func (s *Store) Proposals() *ProposalRepository { return &ProposalRepository{s: s} }
func (s *Store) Projects() *ProjectRepository   { return &ProjectRepository{s: s} }

// WithinTransaction держит блокировку на всё время fn и восстанавливает
// снимок данных, если fn вернула ошибку или контекст отменён.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.owns(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	txCtx := repository.MarkTransaction(context.WithValue(ctx, txKey{}, s))
	err = fn(txCtx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
	}
	return err
}

func (s *Store) owns(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock захватывает мьютекс, если вызов не находится внутри транзакции этого хранилища.
func (s *Store) lock(ctx context.Context) func() {
	if s.owns(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	users     map[uuid.UUID]entity.User
	jobs      map[uuid.UUID]entity.Job
	proposals map[uuid.UUID]entity.Proposal
	projects  map[uuid.UUID]entity.Project
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:     copyMap(s.users),
		jobs:      copyMap(s.jobs),
		proposals: copyMap(s.proposals),
		projects:  copyMap(s.projects),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.jobs = snap.jobs
	s.proposals = snap.proposals
	s.projects = snap.projects
}

// copyMap копирует только карту: значения неизменяемы, срезы клонируются при записи.
func copyMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// sortNewestFirst упорядочивает по убыванию времени создания, при равенстве по ID.
func sortNewestFirst[T any](items []T, key func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return idi < idj
	})
}

// PingContext нужен для health check; хранилище в памяти всегда доступно.
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}
