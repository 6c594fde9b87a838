package app

import (
	"context"
	"fmt"
	"os"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.Registry == nil {
		status.Status = "degraded"
		status.Components["registry"] = "missing"
	} else {
		status.Components["registry"] = fmt.Sprintf("ok (%d architectures)", len(s.app.Registry.Architectures()))
	}

	if s.app.Store != nil {
		status.Components["catalog_store"] = "ok"
	} else if s.app.Config.DB.Enabled {
		status.Status = "degraded"
		status.Components["catalog_store"] = "missing but enabled in config"
	}

	if info, err := os.Stat(s.app.Config.Output.Dir); err == nil && info.IsDir() {
		status.Components["output_dir"] = "ok"
	} else {
		status.Components["output_dir"] = "not created yet"
	}

	return status
}
