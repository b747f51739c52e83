package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/simtab/internal/alias"
	"github.com/roach88/simtab/internal/registry"
	"github.com/roach88/simtab/internal/source"
)

//go:embed schema.cue
var schemaCUE string

// Config is a decoded workspace file: the sources to expose and the
// alias groups that give them derived-variable vocabularies.
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
	Groups  []GroupConfig  `yaml:"groups"`
}

// SourceConfig declares one data source.
type SourceConfig struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"` // "parquet" | "sqlite"
	Path  string `yaml:"path"`
	Table string `yaml:"table"` // sqlite only
	Group string `yaml:"group"` // optional alias group binding
}

// GroupConfig declares one alias group. Alias order in the file is
// registration order, so earlier aliases win overlapping matches.
type GroupConfig struct {
	Name    string        `yaml:"name"`
	Aliases []AliasConfig `yaml:"aliases"`
}

// AliasConfig declares a template alias: pattern captures groups,
// template interpolates them ($1, $2, ...) into the target variable.
type AliasConfig struct {
	Pattern  string `yaml:"pattern"`
	Template string `yaml:"template"`
}

// LoadConfig reads, schema-validates, and decodes a workspace file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Validate the raw YAML against the embedded schema before
	// decoding, so typos surface with field-level messages.
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	if err := cueyaml.Validate(data, schema); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

// BuildRegistry constructs a registry from a decoded workspace:
// groups first so sources can bind to them, then sources.
func BuildRegistry(cfg *Config) (*registry.Registry, error) {
	reg := registry.New()

	for _, g := range cfg.Groups {
		aliases := make([]*alias.Alias, 0, len(g.Aliases))
		for _, ac := range g.Aliases {
			a, err := alias.NewTemplate(ac.Pattern, ac.Template)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.Name, err)
			}
			aliases = append(aliases, a)
		}
		reg.AddGroup(g.Name, aliases...)
	}

	for _, sc := range cfg.Sources {
		src, err := openSource(sc)
		if err != nil {
			return nil, err
		}
		reg.AddSource(sc.Name, src, "")
		if sc.Group != "" {
			reg.Bind(sc.Group, sc.Name)
		}
	}
	return reg, nil
}

func openSource(sc SourceConfig) (source.Source, error) {
	switch sc.Type {
	case "parquet":
		return source.NewParquet(sc.Name, sc.Path)
	case "sqlite":
		if sc.Table == "" {
			return nil, fmt.Errorf("source %q: sqlite sources require a table", sc.Name)
		}
		return source.OpenSQLite(sc.Name, sc.Path, sc.Table)
	default:
		return nil, fmt.Errorf("source %q: unknown type %q", sc.Name, sc.Type)
	}
}
