package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HartBrook/figstyle/internal/styles"
	"gopkg.in/yaml.v3"
)

// Fixture represents a test scenario loaded from YAML.
type Fixture struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Setup       FixtureSetup      `yaml:"setup"`
	Assertions  FixtureAssertions `yaml:"assertions"`
}

// FixtureSetup defines the style input, run options and model responses.
type FixtureSetup struct {
	Styles     string           `yaml:"styles"` // JSON export relative to the fixtures dir
	Generated  *GeneratedStyles `yaml:"generated"`
	Format     string           `yaml:"format"`
	MaxTokens  int              `yaml:"max_tokens"`
	Structured bool             `yaml:"structured"`
	Responses  ResponseSetup    `yaml:"responses"`
}

// GeneratedStyles describes a synthetic style collection.
type GeneratedStyles struct {
	Colors     int `yaml:"colors"`
	Typography int `yaml:"typography"`
	NameLength int `yaml:"name_length"` // padding added to every style name
}

// ResponseSetup holds the scripted model answers.
type ResponseSetup struct {
	Text       string `yaml:"text"`
	Structured string `yaml:"structured"`
}

// FixtureAssertions defines what to verify.
type FixtureAssertions struct {
	Chunks         int            `yaml:"chunks"`
	MinChunks      int            `yaml:"min_chunks"`
	Prefix         string         `yaml:"prefix"`
	Contains       []string       `yaml:"contains"`
	NotContains    []string       `yaml:"not_contains"`
	Ordered        []string       `yaml:"ordered"`
	Count          map[string]int `yaml:"count"`
	ValidJSON      bool           `yaml:"valid_json"`
	JSONKeys       []string       `yaml:"json_keys"`
	Structured     bool           `yaml:"structured"`
	PromptContains []string       `yaml:"prompt_contains"`
	WithinBudget   bool           `yaml:"within_budget"`
}

// LoadFixture loads a fixture from a YAML file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}

	if err := fixture.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}

	return &fixture, nil
}

// Validate checks that the fixture has all required fields.
func (f *Fixture) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("missing required field: name")
	}
	if f.Setup.Styles == "" && f.Setup.Generated == nil {
		return fmt.Errorf("missing required field: setup.styles or setup.generated")
	}
	if f.Setup.Format == "" {
		return fmt.Errorf("missing required field: setup.format")
	}
	if f.Setup.Responses.Text == "" && f.Setup.Responses.Structured == "" {
		return fmt.Errorf("missing required field: setup.responses")
	}
	return nil
}

// LoadAllFixtures loads all fixtures from a directory.
func LoadAllFixtures(dir string) ([]*Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var fixtures []*Fixture
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".yaml" && filepath.Ext(name) != ".yml" {
			continue
		}

		fixture, err := LoadFixture(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, nil
}

// Build creates the synthetic collection.
func (g *GeneratedStyles) Build() *styles.RawStyleCollection {
	raw := &styles.RawStyleCollection{FileKey: "GENERATED0001", Name: "Generated"}
	if g == nil {
		return raw
	}

	pad := strings.Repeat("x", g.NameLength)
	for i := 0; i < g.Colors; i++ {
		raw.Styles.Fill = append(raw.Styles.Fill, styles.RawStyle{
			Name: fmt.Sprintf("Palette/Color %04d %s", i, pad),
			Kind: styles.KindFill,
			Values: styles.Values{
				"type": "SOLID",
				"hex":  fmt.Sprintf("#%06X", i*2654435%0xFFFFFF),
			},
		})
	}
	for i := 0; i < g.Typography; i++ {
		raw.Styles.Text = append(raw.Styles.Text, styles.RawStyle{
			Name: fmt.Sprintf("Type/Style %04d %s", i, pad),
			Kind: styles.KindText,
			Values: styles.Values{
				"fontFamily": "Inter",
				"fontWeight": float64(400 + (i%3)*100),
				"fontSize":   float64(12 + i%20),
			},
		})
	}
	return raw
}
