package potions

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	mathrand "math/rand"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/mroth/weightedrand/v2"
)

// CatalogueConfig describes the effects to mint into a catalogue.
type CatalogueConfig struct {
	Name     string    `json:"name,omitempty"`
	Rarities []float64 `json:"rarities"`
}

// ValidateCatalogueConfig checks that every rarity can be minted.
func ValidateCatalogueConfig(cfg CatalogueConfig) error {
	err := &ValidationError{}
	if len(cfg.Rarities) == 0 {
		err.Add("catalogue must list at least one rarity")
	}
	for i, r := range cfg.Rarities {
		if !validRarity(r) {
			err.Add(fmt.Sprintf("rarity at index %d must be a positive finite number, got %v", i, r))
		}
	}
	if err.HasIssues() {
		return err
	}
	return nil
}

// ParseCatalogueConfig reads a catalogue from r. A JSON object is decoded as
// a CatalogueConfig; anything else is read as whitespace separated numbers.
func ParseCatalogueConfig(r io.Reader) (CatalogueConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return CatalogueConfig{}, fmt.Errorf("reading catalogue: %w", err)
	}

	var cfg CatalogueConfig
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &cfg); err != nil {
			return CatalogueConfig{}, fmt.Errorf("parsing catalogue JSON: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			v, err := strconv.ParseFloat(scanner.Text(), 64)
			if err != nil {
				return CatalogueConfig{}, fmt.Errorf("parsing rarity %d: %w", len(cfg.Rarities), err)
			}
			cfg.Rarities = append(cfg.Rarities, v)
		}
		if err := scanner.Err(); err != nil {
			return CatalogueConfig{}, fmt.Errorf("scanning catalogue: %w", err)
		}
	}

	if err := ValidateCatalogueConfig(cfg); err != nil {
		return CatalogueConfig{}, fmt.Errorf("validating catalogue: %w", err)
	}
	return cfg, nil
}

// LoadCatalogueFile reads a catalogue config from path.
func LoadCatalogueFile(path string) (CatalogueConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return CatalogueConfig{}, fmt.Errorf("opening catalogue file: %w", err)
	}
	defer f.Close()
	cfg, err := ParseCatalogueConfig(f)
	if err != nil {
		return CatalogueConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = path
	}
	return cfg, nil
}

// DefaultCatalogueConfig is the distribution used when no catalogue file can
// be read: twenty common, ten uncommon and two rare effects.
func DefaultCatalogueConfig() CatalogueConfig {
	rarities := make([]float64, 0, 32)
	for range 20 {
		rarities = append(rarities, 1.0)
	}
	for range 10 {
		rarities = append(rarities, 5.0)
	}
	for range 2 {
		rarities = append(rarities, 50.0)
	}
	return CatalogueConfig{Name: "default", Rarities: rarities}
}

// RarityTier is a rarity value with the relative frequency it is generated at.
type RarityTier struct {
	Rarity float64
	Weight int
}

// DefaultRarityTiers mirror the proportions of DefaultCatalogueConfig.
var DefaultRarityTiers = []RarityTier{
	{Rarity: 1.0, Weight: 20},
	{Rarity: 5.0, Weight: 10},
	{Rarity: 50.0, Weight: 2},
}

// GenerateCatalogueConfig builds a catalogue of n effects whose rarities are
// picked from tiers by weight.
func GenerateCatalogueConfig(n int, tiers []RarityTier, rng *rand.Rand) (CatalogueConfig, error) {
	if n <= 0 {
		return CatalogueConfig{}, fmt.Errorf("%w: effect count must be positive, got %d", ErrInvalidArgument, n)
	}
	choices := make([]weightedrand.Choice[float64, int], 0, len(tiers))
	for _, t := range tiers {
		if !validRarity(t.Rarity) {
			return CatalogueConfig{}, fmt.Errorf("%w: tier rarity %v", ErrInvalidRarity, t.Rarity)
		}
		choices = append(choices, weightedrand.NewChoice(t.Rarity, t.Weight))
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return CatalogueConfig{}, fmt.Errorf("building rarity chooser: %w", err)
	}

	// The chooser draws from a math/rand source; seed one from rng so a
	// seeded generator still gives a reproducible catalogue.
	// #nosec G404
	src := mathrand.New(mathrand.NewSource(int64(randOrDefault(rng).Uint64())))
	rarities := make([]float64, n)
	for i := range rarities {
		rarities[i] = chooser.PickSource(src)
	}
	return CatalogueConfig{Name: fmt.Sprintf("generated-%d", n), Rarities: rarities}, nil
}

// NewCatalogueFromConfig creates a catalogue and mints every configured effect.
func NewCatalogueFromConfig(cfg CatalogueConfig, rng *rand.Rand) (*Catalogue, error) {
	if err := ValidateCatalogueConfig(cfg); err != nil {
		return nil, err
	}
	c := NewCatalogue(rng)
	if _, err := c.MintAll(cfg.Rarities); err != nil {
		return nil, err
	}
	return c, nil
}
