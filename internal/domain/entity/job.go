package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

const (
	MaxJobTitleLength       = 200
	MaxJobDescriptionLength = 5000
	MaxSkillLength          = 50
	MaxSkillsCount          = 50
)

type Job struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	Title          string
	Description    string
	Budget         valueobject.Money
	Deadline       time.Time
	RequiredSkills []string
	Status         valueobject.JobStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JobPatch содержит изменяемые клиентом поля; nil означает «не менять».
type JobPatch struct {
	Title          *string
	Description    *string
	Budget         *float64
	Deadline       *time.Time
	RequiredSkills []string
}

func NewJob(clientID uuid.UUID, title, description string, budget float64, deadline time.Time, skills []string) (*Job, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if err := validateJobText(title, description); err != nil {
		return nil, err
	}

	money, err := valueobject.NewMoney("бюджет", budget)
	if err != nil {
		return nil, err
	}

	if deadline.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "дедлайн обязателен")
	}
	if deadline.Before(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "дедлайн не может быть в прошлом")
	}

	normalized, err := NormalizeSkills(skills)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Job{
		ID:             uuid.New(),
		ClientID:       clientID,
		Title:          title,
		Description:    description,
		Budget:         money,
		Deadline:       deadline.UTC(),
		RequiredSkills: normalized,
		Status:         valueobject.JobStatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Apply применяет частичное обновление. Редактировать можно только открытый заказ.
func (j *Job) Apply(patch JobPatch) error {
	if !j.IsOpen() {
		return apperror.New(apperror.ErrCodeConflict, "редактировать можно только открытый заказ")
	}

	title, description := j.Title, j.Description
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		description = strings.TrimSpace(*patch.Description)
	}
	if err := validateJobText(title, description); err != nil {
		return err
	}

	budget := j.Budget
	if patch.Budget != nil {
		money, err := valueobject.NewMoney("бюджет", *patch.Budget)
		if err != nil {
			return err
		}
		budget = money
	}

	deadline := j.Deadline
	if patch.Deadline != nil {
		if patch.Deadline.Before(time.Now()) {
			return apperror.New(apperror.ErrCodeValidation, "дедлайн не может быть в прошлом")
		}
		deadline = patch.Deadline.UTC()
	}

	skills := j.RequiredSkills
	if patch.RequiredSkills != nil {
		normalized, err := NormalizeSkills(patch.RequiredSkills)
		if err != nil {
			return err
		}
		skills = normalized
	}

	j.Title = title
	j.Description = description
	j.Budget = budget
	j.Deadline = deadline
	j.RequiredSkills = skills
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func (j *Job) IsOwnedBy(userID uuid.UUID) bool {
	return j.ClientID == userID
}

func (j *Job) IsOpen() bool {
	return j.Status == valueobject.JobStatusOpen
}

// MatchesSkills сообщает, пересекаются ли требуемые навыки с переданными (без учёта регистра).
func (j *Job) MatchesSkills(skills []string) bool {
	if len(skills) == 0 || len(j.RequiredSkills) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range j.RequiredSkills {
		if _, ok := have[strings.ToLower(s)]; ok {
			return true
		}
	}
	return false
}

// NormalizeSkills обрезает пробелы, убирает пустые и повторяющиеся навыки, сохраняя порядок.
func NormalizeSkills(skills []string) ([]string, error) {
	if len(skills) > MaxSkillsCount {
		return nil, apperror.New(apperror.ErrCodeValidation, "слишком много навыков")
	}
	result := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) > MaxSkillLength {
			return nil, apperror.New(apperror.ErrCodeValidation, "название навыка слишком длинное")
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, s)
	}
	return result, nil
}

func validateJobText(title, description string) error {
	if title == "" {
		return apperror.New(apperror.ErrCodeValidation, "название заказа обязательно")
	}
	if utf8.RuneCountInString(title) > MaxJobTitleLength {
		return apperror.New(apperror.ErrCodeValidation, "название заказа слишком длинное")
	}
	if description == "" {
		return apperror.New(apperror.ErrCodeValidation, "описание заказа обязательно")
	}
	if utf8.RuneCountInString(description) > MaxJobDescriptionLength {
		return apperror.New(apperror.ErrCodeValidation, "описание заказа слишком длинное")
	}
	return nil
}
