package voice

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tracks.yaml
var defaultTracks []byte

// Catalog maps tracks to the fallback wait used when the platform never
// reports the track finished.
type Catalog struct {
	Default time.Duration           `yaml:"default"`
	Tracks  map[Track]time.Duration `yaml:"tracks"`
}

func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultTracks)
	if err != nil {
		panic(fmt.Sprintf("embedded tracks.yaml: %v", err))
	}
	return c
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse track catalog: %w", err)
	}
	if c.Default <= 0 {
		c.Default = 5 * time.Second
	}
	if c.Tracks == nil {
		c.Tracks = map[Track]time.Duration{}
	}
	return &c, nil
}

// Duration is the fallback wait for track.
func (c *Catalog) Duration(track Track) time.Duration {
	if d, ok := c.Tracks[track]; ok {
		return d
	}
	return c.Default
}
