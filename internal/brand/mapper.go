// Package brand resolves brand-name synonyms to canonical brand names
// using an external brand groups configuration.
package brand

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	apperrors "github.com/Stepan2222000/connect-article-avito/shared/errors"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// ComparisonKey normalizes a brand label for lookup: uppercase with all
// hyphens and spaces removed, so ski-doo, skidoo and SKI DOO collide.
func ComparisonKey(brand string) string {
	if brand == "" {
		return ""
	}
	upper := strings.ToUpper(brand)
	upper = strings.ReplaceAll(upper, "-", "")
	upper = strings.ReplaceAll(upper, " ", "")
	return strings.TrimSpace(upper)
}

// Mapper rewrites raw brand labels to canonical brand names.
// Load must be called before Map; Reload rebuilds the whole table from the
// same path. Single writer expected, reads may run concurrently.
type Mapper struct {
	configPath string

	mu                 sync.RWMutex
	groups             map[string][]string
	synonymToCanonical map[string]string
}

func NewMapper(configPath string) *Mapper {
	return &Mapper{
		configPath:         configPath,
		groups:             make(map[string][]string),
		synonymToCanonical: make(map[string]string),
	}
}

// Load reads the canonical-brand -> synonyms mapping from the JSON config
// and builds the reverse index. The canonical name is only a synonym of
// itself if listed among its own synonyms.
func (m *Mapper) Load() error {
	raw, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, m.configPath)
		}
		return fmt.Errorf("reading brand groups %s: %w", m.configPath, err)
	}

	var groups map[string][]string
	if err := json.Unmarshal(raw, &groups); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrConfigParse, m.configPath, err)
	}

	reverse := make(map[string]string)
	for canonical, synonyms := range groups {
		for _, synonym := range synonyms {
			key := ComparisonKey(synonym)
			if key == "" {
				continue
			}
			reverse[key] = strings.ToUpper(canonical)
		}
	}

	m.mu.Lock()
	m.groups = groups
	m.synonymToCanonical = reverse
	m.mu.Unlock()

	logger.Log.Info("brand groups loaded",
		"component", "brand_mapper",
		"path", m.configPath,
		"groups", len(groups),
		"synonyms", len(reverse))
	return nil
}

// Map returns the canonical brand for raw. Unknown brands pass through
// uppercased and trimmed; empty input stays empty.
func (m *Mapper) Map(raw string) string {
	if raw == "" {
		return raw
	}

	m.mu.RLock()
	canonical, ok := m.synonymToCanonical[ComparisonKey(raw)]
	m.mu.RUnlock()
	if ok {
		return canonical
	}
	return strings.TrimSpace(strings.ToUpper(raw))
}

// Reload discards and rebuilds the table from the config path.
func (m *Mapper) Reload() error {
	logger.Log.Info("reloading brand groups", "component", "brand_mapper")
	return m.Load()
}

// Groups returns the number of loaded brand groups.
func (m *Mapper) Groups() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups)
}
