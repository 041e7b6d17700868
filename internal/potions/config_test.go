package potions

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestParseCatalogueConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		want     []float64
		wantErr  bool
	}{
		{name: "plain numbers", input: "1 2.5\n\t10\n", want: []float64{1, 2.5, 10}},
		{name: "json", input: `{"name":"custom","rarities":[1,5,50]}`, wantName: "custom", want: []float64{1, 5, 50}},
		{name: "json with leading space", input: "  \n{\"rarities\":[3]}", want: []float64{3}},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "1 two 3", wantErr: true},
		{name: "negative", input: "1 -2", wantErr: true},
		{name: "zero", input: `{"rarities":[0]}`, wantErr: true},
		{name: "broken json", input: `{"rarities":[1,`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseCatalogueConfig(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCatalogueConfig failed: %v", err)
			}
			if cfg.Name != tt.wantName {
				t.Errorf("Expected name %q, got %q", tt.wantName, cfg.Name)
			}
			if !slices.Equal(cfg.Rarities, tt.want) {
				t.Errorf("Expected rarities %v, got %v", tt.want, cfg.Rarities)
			}
		})
	}
}

func TestValidateCatalogueConfig_CollectsIssues(t *testing.T) {
	err := ValidateCatalogueConfig(CatalogueConfig{Rarities: []float64{1, -1, 0}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Errorf("Expected 2 issues, got %v", verr.Issues)
	}
	if !strings.HasPrefix(verr.Error(), "catalogue validation errors: ") {
		t.Errorf("Unexpected message %q", verr.Error())
	}
}

func TestLoadCatalogueFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effects.txt")
	if err := os.WriteFile(path, []byte("1 1 1 1 5"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCatalogueFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogueFile failed: %v", err)
	}
	if cfg.Name != path || len(cfg.Rarities) != 5 {
		t.Errorf("Unexpected config %+v", cfg)
	}

	if _, err := LoadCatalogueFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestDefaultCatalogueConfig(t *testing.T) {
	cfg := DefaultCatalogueConfig()
	if len(cfg.Rarities) != 32 {
		t.Fatalf("Expected 32 default rarities, got %d", len(cfg.Rarities))
	}
	counts := map[float64]int{}
	for _, r := range cfg.Rarities {
		counts[r]++
	}
	if counts[1] != 20 || counts[5] != 10 || counts[50] != 2 {
		t.Errorf("Unexpected default distribution %v", counts)
	}

	c, err := NewCatalogueFromConfig(cfg, NewRand(1))
	if err != nil {
		t.Fatalf("NewCatalogueFromConfig failed: %v", err)
	}
	if c.Count() != 32 {
		t.Errorf("Expected 32 effects, got %d", c.Count())
	}
}

func TestGenerateCatalogueConfig(t *testing.T) {
	a, err := GenerateCatalogueConfig(500, DefaultRarityTiers, NewRand(8))
	if err != nil {
		t.Fatalf("GenerateCatalogueConfig failed: %v", err)
	}
	b, err := GenerateCatalogueConfig(500, DefaultRarityTiers, NewRand(8))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Rarities, b.Rarities) {
		t.Error("Expected the same seed to generate the same catalogue")
	}
	if a.Name != "generated-500" {
		t.Errorf("Expected name generated-500, got %q", a.Name)
	}

	common := 0
	for _, r := range a.Rarities {
		if r != 1 && r != 5 && r != 50 {
			t.Fatalf("Unexpected rarity %v", r)
		}
		if r == 1 {
			common++
		}
	}
	// 20 of 32 weight units are common
	if common < 250 || common > 370 {
		t.Errorf("Expected roughly 312 common effects, got %d", common)
	}

	if _, err := GenerateCatalogueConfig(0, DefaultRarityTiers, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for n=0, got %v", err)
	}
	if _, err := GenerateCatalogueConfig(3, []RarityTier{{Rarity: -1, Weight: 1}}, nil); !errors.Is(err, ErrInvalidRarity) {
		t.Errorf("Expected ErrInvalidRarity for a bad tier, got %v", err)
	}
	if _, err := GenerateCatalogueConfig(3, nil, nil); err == nil {
		t.Error("Expected error with no tiers")
	}
}
