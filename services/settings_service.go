package services

import (
	"context"
	"net/http"

	"github.com/francismul/oracle-image-gallery/repositories"
)

const themeKey = "gallery-app-theme"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type SettingsService interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

type settingsService struct {
	settings repositories.SettingsRepository
}

func NewSettingsService(settings repositories.SettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) Theme(ctx context.Context) (string, error) {
	value, err := s.settings.Get(ctx, themeKey)
	if err != nil {
		return "", newAppError(http.StatusInternalServerError, "failed to read theme", err)
	}
	if value != ThemeDark {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

func (s *settingsService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return newAppError(http.StatusBadRequest, "theme must be \"dark\" or \"light\"", nil)
	}
	if err := s.settings.Set(ctx, themeKey, theme); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to save theme", err)
	}
	return nil
}
