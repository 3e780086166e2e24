package services

import (
	"context"
	"strings"
	"time"

	"github.com/giftwish/cli/internal/api"
)

// healthTimeout keeps the probe snappy; it is a pre-flight check, not a
// real call.
const healthTimeout = 3 * time.Second

// HealthService probes server reachability. The endpoint is
// unauthenticated and the probe uses its own short-timeout client.
type HealthService struct {
	client *api.Client
}

func NewHealth(baseURL string) *HealthService {
	client := api.NewClient(baseURL, nil)
	client.HTTPClient.Timeout = healthTimeout
	return &HealthService{client: client}
}

// Check reports whether the server answers the health endpoint with an
// ok status. Any error means unreachable.
func (s *HealthService) Check(ctx context.Context) bool {
	var resp api.HealthResponse
	if err := s.client.Do(ctx, api.Get("/health"), &resp); err != nil {
		return false
	}
	return strings.EqualFold(resp.Status, "ok")
}
