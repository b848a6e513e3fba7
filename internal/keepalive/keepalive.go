package keepalive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Pinger periodically GETs <baseURL>/ping so a sleeping host stays warm.
type Pinger struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewPinger(baseURL string, interval time.Duration, logger *slog.Logger) *Pinger {
	return &Pinger{
		url:        strings.TrimRight(baseURL, "/") + "/ping",
		interval:   interval,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Run pings on every tick until ctx is cancelled.
func (p *Pinger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("keepalive started", "url", p.url, "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("keepalive stopped")
			return
		case <-ticker.C:
			if err := p.Ping(ctx); err != nil {
				p.logger.Warn("keepalive ping failed", "error", err)
			}
		}
	}
}

// Ping sends a single request and fails on any non-200 response.
func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	p.logger.Debug("keepalive ping ok")
	return nil
}
