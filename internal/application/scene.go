package application

import (
	"fmt"
	"log/slog"

	"homecontrol/internal/domain"
)

// Scene is a named bulk operation over the whole home.
type Scene struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

const (
	SceneGoodMorning = "good-morning"
	SceneMovieTime   = "movie-time"
	SceneNightMode   = "night-mode"
	SceneAwayMode    = "away-mode"
)

// SceneRunner maps the built-in scenes onto store operations.
type SceneRunner struct {
	store  *HomeStore
	logger *slog.Logger
}

func NewSceneRunner(store *HomeStore, logger *slog.Logger) *SceneRunner {
	return &SceneRunner{store: store, logger: logger}
}

func (r *SceneRunner) Scenes() []Scene {
	return []Scene{
		{ID: SceneGoodMorning, Name: "Good Morning", Icon: "☀️"},
		{ID: SceneMovieTime, Name: "Movie Time", Icon: "🎬"},
		{ID: SceneNightMode, Name: "Night Mode", Icon: "🌙"},
		{ID: SceneAwayMode, Name: "Away Mode", Icon: "🏠"},
	}
}

func (r *SceneRunner) Run(id string) error {
	switch id {
	case SceneGoodMorning:
		r.store.ToggleAllAppliances(true)
	case SceneAwayMode:
		r.store.ToggleAllAppliances(false)
	case SceneNightMode:
		r.store.ToggleNightMode()
	case SceneMovieTime:
		r.store.SetAppliancesOfType(domain.ApplianceTypeLight, false)
	default:
		return fmt.Errorf("unknown scene: %s", id)
	}

	r.logger.Info("scene executed", "scene", id)
	return nil
}
