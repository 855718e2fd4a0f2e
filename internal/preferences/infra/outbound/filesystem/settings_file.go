package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/davicafu/matafuegos/internal/preferences/domain"
)

// JSONSettingsFile guarda las preferencias en un fichero JSON.
type JSONSettingsFile struct {
	filePath string
	mu       sync.Mutex
}

var _ domain.Persistence = (*JSONSettingsFile)(nil)

func NewJSONSettingsFile(filePath string) *JSONSettingsFile {
	return &JSONSettingsFile{filePath: filePath}
}

// Load devuelve (nil, nil) si el fichero no existe o está vacío.
func (f *JSONSettingsFile) Load(ctx context.Context) (*domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var s domain.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.filePath, err)
	}
	return &s, nil
}

// Save sobrescribe el fichero completo. Crea el directorio si hace falta.
func (f *JSONSettingsFile) Save(ctx context.Context, s domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := f.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.filePath)
}
