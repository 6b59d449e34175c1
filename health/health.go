package health

import (
	"context"
	"fmt"

	"github.com/waigel/messengerpeople-go/mpclient"
)

// Module binds the health endpoints to a client.
type Module struct {
	r mpclient.Requester
}

// New creates a Module. No scopes are required.
func New(r mpclient.Requester) *Module {
	return &Module{r: r}
}

// GetIPAddresses returns the IP addresses currently used to send webhooks.
func (m *Module) GetIPAddresses(ctx context.Context) ([]string, error) {
	ips, err := mpclient.Get[[]string](ctx, m.r, "/ip")
	if err != nil {
		return nil, fmt.Errorf("health: get ip addresses: %w", err)
	}
	return ips, nil
}
