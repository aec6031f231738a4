package handler

import (
	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

type deviceRequest struct {
	Name               string  `json:"name"               validate:"required"`
	Description        string  `json:"description"`
	MaximumConsumption float64 `json:"maximumConsumption" validate:"gte=0.1"`
	PowerConsumption   float64 `json:"powerConsumption"   validate:"gte=0"`
}

func (r deviceRequest) toInput() ports.DeviceInput {
	return ports.DeviceInput{
		Name:               r.Name,
		Description:        r.Description,
		MaximumConsumption: r.MaximumConsumption,
		PowerConsumption:   r.PowerConsumption,
	}
}

// deviceList flattens repository pointers into the response array. Never nil.
func deviceList(in []*domain.Device) []domain.Device {
	out := make([]domain.Device, 0, len(in))
	for _, d := range in {
		out = append(out, *d)
	}
	return out
}
