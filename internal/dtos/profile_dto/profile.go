package profile_dto

import (
	"time"

	"github.com/concordlabs/concord/internal/entity"
)

type BootstrapProfileRequest struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=100"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromProfile(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
