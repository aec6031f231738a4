package handler

import (
	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

type profileRequest struct {
	ID          string `json:"id"          validate:"omitempty,uuid"`
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=6,max=32"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// toProfile maps the request. The id was validated, so a parse failure only
// leaves it zero.
func (r profileRequest) toProfile() domain.UserProfile {
	id, _ := uuid.Parse(r.ID)
	return domain.UserProfile{
		ID:          id,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		City:        r.City,
		Country:     r.Country,
	}
}

func profileList(in []*domain.UserProfile) []domain.UserProfile {
	out := make([]domain.UserProfile, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}
