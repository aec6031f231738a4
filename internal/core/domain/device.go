package domain

import "github.com/google/uuid"

// Device is a registered energy-consuming device. OwnerID is nil while the
// device is unassigned.
type Device struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	MaximumConsumption float64    `json:"maximumConsumption"`
	PowerConsumption   float64    `json:"powerConsumption"`
	OwnerID            *uuid.UUID `json:"ownerId"`
}

// OwnedBy reports whether the device is assigned to userID.
func (d *Device) OwnedBy(userID uuid.UUID) bool {
	return d.OwnerID != nil && *d.OwnerID == userID
}
