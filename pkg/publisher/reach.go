package publisher

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReachTable maps a platform name to its estimated audience per published
// post. Platforms not in the table fall back to defaultReach.
type ReachTable map[string]int

const defaultReach = 1000

func DefaultReachTable() ReachTable {
	return ReachTable{
		"tiktok":    10000,
		"instagram": 5000,
		"youtube":   3000,
		"facebook":  2000,
		"twitter":   1500,
	}
}

// LoadReachTable reads per-platform reach estimates from a YAML file and
// merges them over the defaults. An empty path returns the defaults.
func LoadReachTable(path string) (ReachTable, error) {
	table := DefaultReachTable()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reach table %s: %w", path, err)
	}

	var file struct {
		Platforms map[string]int `yaml:"platforms"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing reach table %s: %w", path, err)
	}

	for platform, reach := range file.Platforms {
		if reach > 0 {
			table[platform] = reach
		}
	}
	return table, nil
}

func (t ReachTable) For(platform string) int {
	if reach, ok := t[platform]; ok {
		return reach
	}
	return defaultReach
}
