package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/ports"
	"github.com/energy-platform/mesh/internal/core/trust"
)

const placeholderName = "User"

type profileRequest struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// ProfileClient creates companion profiles in the user service.
type ProfileClient struct {
	baseURL string
	client  *http.Client
}

func NewProfileClient(baseURL string, client *http.Client) *ProfileClient {
	return &ProfileClient{baseURL: baseURL, client: client}
}

// OnIdentityCreated posts a profile for seed with an elevated admin header.
// A blank email is skipped without a call: the user service requires one.
func (c *ProfileClient) OnIdentityCreated(ctx context.Context, seed ports.ProfileSeed) error {
	email := strings.TrimSpace(seed.Email)
	if email == "" {
		return nil
	}
	name := strings.TrimSpace(seed.Username)
	if name == "" {
		name = placeholderName
	}

	payload, err := json.Marshal(profileRequest{ID: seed.ID, FirstName: name, LastName: name, Email: email})
	if err != nil {
		return err
	}
	req, err := newRequest(ctx, http.MethodPost, c.baseURL, "/users", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	trust.Elevated(uuid.Nil).Apply(req.Header)

	_, err = do(c.client, req)
	return err
}
