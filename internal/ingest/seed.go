package ingest

import (
	"fmt"
	"os"

	"github.com/pscheid92/fxpulse/internal/domain"
	"gopkg.in/yaml.v3"
)

// Seed holds starting pillar scores per currency, keyed by currency code:
//
//	USD:
//	  policy: 1.5
//	  inflation: 1
//	JPY:
//	  policy: -1
//
// Pillar entries go through the store's usual validation, so unknown names and
// out-of-range values are skipped there.
type Seed map[domain.Currency]map[string]any

// LoadSeedFile reads a seed from a YAML file.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML seed data. Unknown currencies are an error.
func ParseSeed(data []byte) (Seed, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	seed := make(Seed, len(raw))
	for key, pillars := range raw {
		c, err := domain.ParseCurrency(key)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if pillars == nil {
			continue
		}
		seed[c] = pillars
	}
	return seed, nil
}
