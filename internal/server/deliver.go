package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/id-contact/test-auth/internal/logging"
	"github.com/id-contact/test-auth/internal/metrics"
)

// Deliverer posts auth result tokens to a core-provided attribute URL.
type Deliverer struct {
	client  *http.Client
	metrics *metrics.Metrics
}

// NewDeliverer creates a deliverer with a bounded request timeout.
func NewDeliverer(m *metrics.Metrics) *Deliverer {
	return &Deliverer{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		metrics: m,
	}
}

// Deliver posts the token to attrURL as application/jwt. A failure is logged
// and counted but never propagated: the user's redirect must proceed.
func (d *Deliverer) Deliver(ctx context.Context, attrURL, token string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, attrURL, strings.NewReader(token))
	if err != nil {
		d.fail(ctx, attrURL, err)
		return
	}
	req.Header.Set("Content-Type", "application/jwt")

	resp, err := d.client.Do(req)
	if err != nil {
		d.fail(ctx, attrURL, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		d.fail(ctx, attrURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
		return
	}

	logging.InfoContext(ctx, "reported auth result", "attr_url", attrURL)
}

func (d *Deliverer) fail(ctx context.Context, attrURL string, err error) {
	d.metrics.DeliveryFailures.Inc()
	logging.ErrorContext(ctx, "failed to report auth result", "attr_url", attrURL, "error", err)
}
