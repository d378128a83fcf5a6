package valueobject

import (
	"strings"

	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleFreelancer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// NewRole разбирает роль без учёта регистра; пустая строка даёт client.
func NewRole(role string) (Role, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return RoleClient, nil
	}
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "роль должна быть client, freelancer или admin")
	}
	return r, nil
}
