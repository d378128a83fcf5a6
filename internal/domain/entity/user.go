package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         valueobject.Role
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	Bio         string
	Skills      []string
	CompanyName string
	Location    string
	Avatar      string
}

// ProfilePatch описывает обновление профиля: пустые значения не затирают текущие.
type ProfilePatch struct {
	Name        string
	Email       string
	Bio         string
	Skills      []string
	CompanyName string
	Location    string
	Avatar      string
}

func NewUser(name, email, passwordHash string, role valueobject.Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		Profile:      Profile{Skills: []string{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply переносит непустые поля патча; навыки заменяются целиком, если переданы.
func (u *User) Apply(patch ProfilePatch) error {
	if name := strings.TrimSpace(patch.Name); name != "" {
		u.Name = name
	}
	if email := NormalizeEmail(patch.Email); email != "" {
		u.Email = email
	}
	if bio := strings.TrimSpace(patch.Bio); bio != "" {
		u.Profile.Bio = bio
	}
	if patch.Skills != nil {
		skills, err := NormalizeSkills(patch.Skills)
		if err != nil {
			return err
		}
		u.Profile.Skills = skills
	}
	if company := strings.TrimSpace(patch.CompanyName); company != "" {
		u.Profile.CompanyName = company
	}
	if location := strings.TrimSpace(patch.Location); location != "" {
		u.Profile.Location = location
	}
	if avatar := strings.TrimSpace(patch.Avatar); avatar != "" {
		u.Profile.Avatar = avatar
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
