package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/auth"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Bio         string   `json:"bio"`
	Skills      []string `json:"skills"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"location"`
	Avatar      string   `json:"avatar"`
}

// UserResponse никогда не содержит хеш пароля.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Bio         string    `json:"bio"`
	Skills      []string  `json:"skills"`
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (r UpdateProfileRequest) ToPatch() entity.ProfilePatch {
	return entity.ProfilePatch{
		Name:        r.Name,
		Email:       r.Email,
		Bio:         r.Bio,
		Skills:      r.Skills,
		CompanyName: r.CompanyName,
		Location:    r.Location,
		Avatar:      r.Avatar,
	}
}

func ToUserResponse(u *entity.User) UserResponse {
	skills := u.Profile.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		Bio:         u.Profile.Bio,
		Skills:      skills,
		CompanyName: u.Profile.CompanyName,
		Location:    u.Profile.Location,
		Avatar:      u.Profile.Avatar,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponses(users []*entity.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, ToUserResponse(u))
	}
	return result
}

func ToAuthResponse(r *auth.Result) AuthResponse {
	return AuthResponse{
		User:      ToUserResponse(r.User),
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
	}
}
