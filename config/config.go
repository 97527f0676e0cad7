// Package config loads the checker configuration with viper and turns it into
// rule suites, codelist options and parse options.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/merge"
	"github.com/reoring/schemaconv/resolve"
	"github.com/reoring/schemaconv/rules"
	"github.com/reoring/schemaconv/source/gojson"
)

// Name is the configuration file name looked up in the working directory,
// without extension.
const Name = ".schemaconv"

// EnvPrefix prefixes environment overrides, for example SCHEMACONV_KIND.
const EnvPrefix = "SCHEMACONV"

// Config represents the checker configuration.
type Config struct {
	// Kind is standard, extension or profile.
	Kind string `mapstructure:"kind"`
	// NoNull forbids "null" in every type.
	NoNull bool `mapstructure:"no_null"`
	// FullSchema runs the rules that expect a self-contained schema. It
	// defaults to true except for extensions.
	FullSchema *bool `mapstructure:"full_schema"`
	// Driver selects the JSON tokenizer: encoding/json or go-json.
	Driver string `mapstructure:"driver"`
	// MaxDepth bounds the nesting of parsed documents; 0 means unlimited.
	MaxDepth int `mapstructure:"max_depth"`
	// Metaschema is the path of a JSON Schema every document must satisfy.
	Metaschema string `mapstructure:"metaschema"`
	// BaseURL is where merge patches find the schemas they patch.
	BaseURL           string       `mapstructure:"base_url"`
	Exclude           []string     `mapstructure:"exclude"`
	ExternalCodelists []string     `mapstructure:"external_codelists"`
	Lang              string       `mapstructure:"lang"`
	Rules             RulesConfig  `mapstructure:"rules"`
	Skip              []SkipConfig `mapstructure:"skip"`
	Merge             MergeConfig  `mapstructure:"merge"`
	Server            ServerConfig `mapstructure:"server"`
}

// RulesConfig holds the exceptions of each rule. Pointer lists accept globs.
type RulesConfig struct {
	LetterCase struct {
		PropertyExceptions   []string `mapstructure:"property_exceptions"`
		DefinitionExceptions []string `mapstructure:"definition_exceptions"`
	} `mapstructure:"letter_case"`
	MetadataPresence struct {
		AllowMissing []string `mapstructure:"allow_missing"`
	} `mapstructure:"metadata_presence"`
	NullType struct {
		AllowObjectNull []string `mapstructure:"allow_object_null"`
		AllowNoNull     []string `mapstructure:"allow_no_null"`
		AllowNull       []string `mapstructure:"allow_null"`
	} `mapstructure:"null_type"`
	CodelistEnum struct {
		Fallback     []FallbackConfig `mapstructure:"fallback"`
		AllowEnum    []string         `mapstructure:"allow_enum"`
		AllowMissing []string         `mapstructure:"allow_missing"`
	} `mapstructure:"codelist_enum"`
	ArrayItems struct {
		AllowInvalid []string `mapstructure:"allow_invalid"`
	} `mapstructure:"array_items"`
	ItemsType struct {
		AdditionalValidTypes []string `mapstructure:"additional_valid_types"`
		AllowInvalid         []string `mapstructure:"allow_invalid"`
	} `mapstructure:"items_type"`
	DeepProperties struct {
		AllowDeep []string `mapstructure:"allow_deep"`
	} `mapstructure:"deep_properties"`
	ObjectID struct {
		AllowMissing  []string `mapstructure:"allow_missing"`
		AllowOptional []string `mapstructure:"allow_optional"`
	} `mapstructure:"object_id"`
}

// FallbackConfig gives the types assumed for a field without "type".
type FallbackConfig struct {
	Pointer string   `mapstructure:"pointer"`
	Types   []string `mapstructure:"types"`
}

// SkipConfig disables a rule ("*" for every rule) for files whose base name
// matches one of Files.
type SkipConfig struct {
	Rule  string   `mapstructure:"rule"`
	Files []string `mapstructure:"files"`
}

// MergeConfig lists the pointers a merge patch may overwrite.
type MergeConfig struct {
	AllowOverwrite        []string `mapstructure:"allow_overwrite"`
	AllowRemove           []string `mapstructure:"allow_remove"`
	AllowRemoveDeprecated bool     `mapstructure:"allow_remove_deprecated"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the configuration file at path, or .schemaconv.yaml in the
// working directory when path is empty. A missing default file is not an
// error. fs may be nil to use the OS filesystem.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}

	v.SetDefault("kind", "standard")
	v.SetDefault("no_null", false)
	v.SetDefault("driver", "encoding/json")
	v.SetDefault("max_depth", 0)
	v.SetDefault("metaschema", "")
	v.SetDefault("base_url", "")
	v.SetDefault("lang", "en")
	v.SetDefault("server.addr", ":8080")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("full_schema")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Kind: "standard", Driver: "encoding/json", Lang: "en", Server: ServerConfig{Addr: ":8080"}}
}

func validate(cfg *Config) error {
	if _, err := codelist.ParseKind(cfg.Kind); err != nil {
		return err
	}
	switch cfg.Driver {
	case "", "encoding/json", "go-json":
	default:
		return fmt.Errorf("driver must be encoding/json or go-json, got: %s", cfg.Driver)
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got: %d", cfg.MaxDepth)
	}
	switch cfg.Lang {
	case "", "en", "ja":
	default:
		return fmt.Errorf("lang must be en or ja, got: %s", cfg.Lang)
	}
	for _, f := range cfg.Rules.CodelistEnum.Fallback {
		if _, ok := schemaconv.ParsePointer(f.Pointer); !ok {
			return fmt.Errorf("rules.codelist_enum.fallback: invalid pointer %q", f.Pointer)
		}
	}
	for _, s := range cfg.Skip {
		if s.Rule == "" {
			return errors.New("skip: rule must be set")
		}
	}
	return nil
}

// RepositoryKind returns the parsed Kind.
func (c *Config) RepositoryKind() codelist.Kind {
	k, _ := codelist.ParseKind(c.Kind)
	return k
}

// Full reports whether the full rule set applies.
func (c *Config) Full() bool {
	if c.FullSchema != nil {
		return *c.FullSchema
	}
	return c.RepositoryKind() != codelist.Extension
}

// ParseOptions returns the parse options for the configured driver and depth
// limit.
func (c *Config) ParseOptions() schemaconv.ParseOptions {
	opt := schemaconv.ParseOptions{MaxDepth: c.MaxDepth}
	if c.Driver == "go-json" {
		opt.Driver = gojson.Driver()
	}
	return opt
}

// External returns the codelists defined outside the repository.
func (c *Config) External() schemaconv.Set {
	return schemaconv.NewSet(c.ExternalCodelists...)
}

// MatchOptions returns the codelist cross-reference options.
func (c *Config) MatchOptions() codelist.MatchOptions {
	kind := c.RepositoryKind()
	return codelist.MatchOptions{Kind: kind, External: c.External(), Include: codelist.IncludeFor(kind)}
}

// MergeOptions returns the options for applying merge patches.
func (c *Config) MergeOptions() merge.Options {
	return merge.Options{AllowOverwrite: merge.Allow(
		schemaconv.NewSet(c.Merge.AllowOverwrite...),
		schemaconv.NewSet(c.Merge.AllowRemove...),
		c.Merge.AllowRemoveDeprecated,
	)}
}

// Suite builds the rule suite. Codelists feed the codelist/enum rule and res
// backs reference resolution; both may be empty.
func (c *Config) Suite(codelists []codelist.File, res *resolve.Resolver) rules.Suite {
	r := c.Rules
	allowMissingCodelist := schemaconv.NewSet(r.CodelistEnum.AllowMissing...)
	for _, name := range c.ExternalCodelists {
		allowMissingCodelist[name] = struct{}{}
	}
	fallback := make(map[string][]string, len(r.CodelistEnum.Fallback))
	for _, f := range r.CodelistEnum.Fallback {
		fallback[f.Pointer] = f.Types
	}

	vs := []rules.Validator{
		rules.ItemsType{
			AdditionalValidTypes: r.ItemsType.AdditionalValidTypes,
			AllowInvalid:         schemaconv.NewSet(r.ItemsType.AllowInvalid...),
		},
		rules.CodelistEnum{
			Codelists:    codelists,
			Fallback:     fallback,
			AllowEnum:    schemaconv.NewSet(r.CodelistEnum.AllowEnum...).PointerPredicate(),
			AllowMissing: allowMissingCodelist.NamePredicate(),
		},
		rules.LetterCase{
			PropertyExceptions:   schemaconv.NewSet(r.LetterCase.PropertyExceptions...),
			DefinitionExceptions: schemaconv.NewSet(r.LetterCase.DefinitionExceptions...),
		},
		rules.MergeProperties{},
		rules.ArrayItems{AllowInvalid: schemaconv.NewSet(r.ArrayItems.AllowInvalid...)},
	}
	if c.Full() {
		vs = append(vs,
			rules.Ref{Resolver: res},
			rules.MetadataPresence{AllowMissing: schemaconv.NewSet(r.MetadataPresence.AllowMissing...).PointerPredicate()},
			rules.ObjectID{
				AllowMissing:  schemaconv.NewSet(r.ObjectID.AllowMissing...).PointerPredicate(),
				AllowOptional: schemaconv.NewSet(r.ObjectID.AllowOptional...),
				Resolver:      res,
			},
			rules.NullType{
				NoNull:          c.NoNull,
				AllowObjectNull: schemaconv.NewSet(r.NullType.AllowObjectNull...),
				AllowNoNull:     schemaconv.NewSet(r.NullType.AllowNoNull...),
				AllowNull:       schemaconv.NewSet(r.NullType.AllowNull...),
			},
		)
	} else {
		vs = append(vs, rules.DeepProperties{AllowDeep: schemaconv.NewSet(r.DeepProperties.AllowDeep...)})
	}
	return rules.Suite{Validators: vs, Skip: c.skip()}
}

// Skips reports whether rule is disabled for the document at path.
func (c *Config) Skips(rule, path string) bool {
	base := filepath.Base(path)
	for _, s := range c.Skip {
		if s.Rule != rule && s.Rule != "*" {
			continue
		}
		if schemaconv.NewSet(s.Files...).Match(base) {
			return true
		}
	}
	return false
}

func (c *Config) skip() func(rule, path string) bool {
	if len(c.Skip) == 0 {
		return nil
	}
	return c.Skips
}
