// Package service runs the background HTTP surface: a healthz endpoint
// for liveness checks and a prometheus metrics endpoint.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/scriptcheck/scriptcheck/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
}

func New() *Service {
	return &Service{
		Healthz: &HealthzServer{},
		Metrics: &MetricsServer{},
	}
}

// Start launches both servers in the background. Failures are logged and
// recorded as error metrics; they do not take the application down.
func (s *Service) Start(ctx context.Context) {
	log.Info("service starting")
	go serve(ctx, "healthz", net.JoinHostPort(HealthzHost, HealthzPort), s.Healthz.Start)
	go serve(ctx, "metrics", net.JoinHostPort(MetricsHost, MetricsPort), s.Metrics.Start)
	log.Info("service started")
}

func serve(ctx context.Context, name, addr string, start func(context.Context, string) error) {
	log.Info("starting server", "server", name, "addr", addr)
	if err := start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "server", name, "err", err)
		metrics.RecordErrorDetails("error starting "+name+" server", err)
	}
}

func (s *Service) Shutdown() {
	log.Info("service shutting down")
	_ = s.Healthz.Shutdown()
	_ = s.Metrics.Shutdown()
	log.Info("service stopped")
}
