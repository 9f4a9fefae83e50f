package app

import (
	"fmt"

	"github.com/ashrafosman/localscribe/config"
	"github.com/ashrafosman/localscribe/internal/history"
	"github.com/ashrafosman/localscribe/internal/meeting"
)

// App wires configuration into the long-lived services.
type App struct {
	Meetings *meeting.Service
	Janitor  *meeting.Janitor
	History  *history.Store // nil when no history database is configured
}

func New(cfg *config.Config) (*App, error) {
	svc := meeting.NewService(cfg)

	var hist *history.Store
	if cfg.HistoryDBPath != "" {
		var err error
		hist, err = history.Open(cfg.HistoryDBPath)
		if err != nil {
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		svc.AttachHistory(hist)
	}

	return &App{
		Meetings: svc,
		Janitor:  meeting.NewJanitor(svc),
		History:  hist,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.History != nil {
		_ = a.History.Close()
	}
}
