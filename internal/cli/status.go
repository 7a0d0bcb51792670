package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"drawdown-console/internal/engine"
	apperrors "drawdown-console/internal/errors"
)

// HealthStatus is the state of one component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "HEALTHY"
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"
	HealthStatusUnknown   HealthStatus = "UNKNOWN"
)

// ComponentHealth is the outcome of one check.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Message string        `json:"message"`
	Latency time.Duration `json:"latency_ns,omitempty"`
}

func checkEngine(ctx context.Context, app *App) ComponentHealth {
	h := ComponentHealth{Name: "engine", Status: HealthStatusUnknown}
	checker, ok := app.Engine.(engine.StatusChecker)
	if !ok {
		h.Message = "engine does not report status"
		return h
	}
	start := time.Now()
	msg, err := checker.Status(ctx)
	h.Latency = time.Since(start)
	if err != nil {
		h.Status = HealthStatusUnhealthy
		h.Message = apperrors.Message(err)
		return h
	}
	h.Status = HealthStatusHealthy
	h.Message = msg
	return h
}

func checkStore(ctx context.Context, app *App) ComponentHealth {
	h := ComponentHealth{Name: "accounts", Status: HealthStatusUnhealthy}
	if app.Store == nil {
		h.Message = "store unavailable at " + app.Config.Session.DBPath
		return h
	}
	start := time.Now()
	users, err := app.Store.ListUsers(ctx)
	h.Latency = time.Since(start)
	if err != nil {
		h.Message = err.Error()
		return h
	}
	h.Status = HealthStatusHealthy
	h.Message = fmt.Sprintf("%d account(s)", len(users))
	return h
}

func checkSession(app *App) ComponentHealth {
	h := ComponentHealth{Name: "session", Status: HealthStatusUnknown, Message: "signed out"}
	if app.Gate == nil {
		return h
	}
	if u := app.Gate.ActiveUser(); u != nil {
		h.Status = HealthStatusHealthy
		h.Message = "signed in as " + u.AccountID
	}
	return h
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the pricing engine and the account store",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			checks := []ComponentHealth{
				checkEngine(ctx, app),
				checkStore(ctx, app),
				checkSession(app),
			}

			if output.IsJSON() {
				return output.JSON(checks)
			}

			output.Bold("Engine: %s", app.Config.Engine.BaseURL)
			table := NewTable(output, "Component", "Status", "Detail", "Latency")
			for _, c := range checks {
				status := string(c.Status)
				switch c.Status {
				case HealthStatusHealthy:
					status = output.Green(status)
				case HealthStatusUnhealthy:
					status = output.Red(status)
				}
				latency := "-"
				if c.Latency > 0 {
					latency = c.Latency.Round(time.Millisecond).String()
				}
				table.AddRow(c.Name, status, c.Message, latency)
			}
			table.Render()
			return nil
		},
	}
}
