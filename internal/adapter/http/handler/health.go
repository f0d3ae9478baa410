package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	serviceName string
	version     string
	checks      map[string]Pinger
	log         logger.Logger
}

func NewHealth(serviceName, version string, checks map[string]Pinger, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the service status and the state of its dependencies
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	status := "available"
	code := http.StatusOK
	deps := make(map[string]string, len(a.checks))

	for name, p := range a.checks {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pingCtx)
		cancel()

		if err != nil {
			a.log.Warn(ctx, "dependency is unreachable", "dependency", name, "error", err.Error())
			deps[name] = "unavailable"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	response := envelope{
		"status": status,
		"system_info": map[string]string{
			"service_name": a.serviceName,
			"version":      a.version,
		},
		"dependencies": deps,
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
	}
}
