package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/trust"
)

// DeviceClient reads device ownership from the device service.
type DeviceClient struct {
	baseURL string
	client  *http.Client
}

func NewDeviceClient(baseURL string, client *http.Client) *DeviceClient {
	return &DeviceClient{baseURL: baseURL, client: client}
}

// FetchOwnedDevices asks the device service for ownerID's devices. The call
// carries an elevated admin assertion plus the caller's own Authorization.
// An empty body is an empty list.
func (c *DeviceClient) FetchOwnedDevices(ctx context.Context, ownerID uuid.UUID, authorization string) ([]domain.Device, error) {
	req, err := newRequest(ctx, http.MethodGet, c.baseURL, "/devices/owner/"+ownerID.String(), nil)
	if err != nil {
		return nil, err
	}
	trust.Elevated(ownerID).Apply(req.Header)
	if auth := strings.TrimSpace(authorization); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	body, err := do(c.client, req)
	if err != nil {
		return nil, err
	}

	devices := []domain.Device{}
	if len(bytes.TrimSpace(body)) == 0 {
		return devices, nil
	}
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("%w: decode devices: %v", domain.ErrPeerUnavailable, err)
	}
	if devices == nil {
		devices = []domain.Device{}
	}
	return devices, nil
}
