package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var ErrInvalidSettings = errors.New("invalid settings")

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Formatos de fecha admitidos y su layout de Go.
var dateLayouts = map[string]string{
	"DD/MM/YYYY": "02/01/2006",
	"MM/DD/YYYY": "01/02/2006",
	"YYYY-MM-DD": "2006-01-02",
}

const MaxItemsPerPage = 100

// Settings son las preferencias de la instalación.
type Settings struct {
	Theme        Theme  `json:"theme"`
	Language     string `json:"language"`
	ItemsPerPage int    `json:"items_per_page"`
	DateFormat   string `json:"date_format"`
}

func Defaults() Settings {
	return Settings{
		Theme:        ThemeLight,
		Language:     "es",
		ItemsPerPage: 10,
		DateFormat:   "DD/MM/YYYY",
	}
}

// Normalize canoniza el idioma y valida el resto.
func (s *Settings) Normalize() error {
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: theme %q (light|dark)", ErrInvalidSettings, s.Theme)
	}

	tag, err := language.Parse(strings.TrimSpace(s.Language))
	if err != nil {
		return fmt.Errorf("%w: language %q", ErrInvalidSettings, s.Language)
	}
	s.Language = tag.String()

	if s.ItemsPerPage < 1 || s.ItemsPerPage > MaxItemsPerPage {
		return fmt.Errorf("%w: items_per_page debe estar entre 1 y %d", ErrInvalidSettings, MaxItemsPerPage)
	}
	if _, ok := dateLayouts[s.DateFormat]; !ok {
		return fmt.Errorf("%w: date_format %q", ErrInvalidSettings, s.DateFormat)
	}
	return nil
}

// DateLayout devuelve el layout de time.Format del formato elegido.
func (s Settings) DateLayout() string {
	if l, ok := dateLayouts[s.DateFormat]; ok {
		return l
	}
	return dateLayouts[Defaults().DateFormat]
}

// Persistence guarda las preferencias. Load devuelve (nil, nil) si nunca se guardaron.
type Persistence interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s Settings) error
}
