package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const manifestName = "manifest.json"

// Manifest describes one export run.
type Manifest struct {
	Timestamp time.Time `json:"timestamp"`
	Scenes    []Entry   `json:"scenes"`
}

// Entry is the outcome for one scene.
type Entry struct {
	Scene   int    `json:"scene"`
	Title   string `json:"title"`
	File    string `json:"file,omitempty"`
	Braille string `json:"braille,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeManifest(dir string, m Manifest) (string, error) {
	path := filepath.Join(dir, manifestName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	return path, nil
}

// LoadManifest reads the manifest left in dir by a previous export.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
