// Package config loads game configurations from YAML files. Documents are
// checked against a JSON Schema reflected from game.Config before they are
// decoded over the defaults.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/tftx/internal/game"
)

const schemaURL = "tftx-config.schema.json"

var (
	schemaOnce     sync.Once
	schemaBytes    []byte
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema for configuration documents.
func Schema() ([]byte, error) {
	compile()
	return schemaBytes, schemaErr
}

func compile() {
	schemaOnce.Do(func() {
		r := invopop.Reflector{Anonymous: true, DoNotReference: true}
		s := r.Reflect(&game.Config{})
		s.Title = "tftx game configuration"
		s.Description = "Parameters of an auto-battler game. Omitted keys take their default values."

		schemaBytes, schemaErr = json.MarshalIndent(s, "", "  ")
		if schemaErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if schemaErr = c.AddResource(schemaURL, bytes.NewReader(schemaBytes)); schemaErr != nil {
			return
		}
		schemaCompiled, schemaErr = c.Compile(schemaURL)
	})
}

// Load reads a YAML configuration file.
func Load(path string) (game.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return game.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration over DefaultConfig and validates it.
func Parse(data []byte) (game.Config, error) {
	if err := validateDocument(data); err != nil {
		return game.Config{}, err
	}
	cfg := game.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return game.Config{}, fmt.Errorf("%w: %v", game.ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

// validateDocument checks the raw document against the schema. The
// validator wants JSON values, so the YAML tree is round-tripped through
// encoding/json with numbers preserved.
func validateDocument(data []byte) error {
	compile()
	if schemaErr != nil {
		return schemaErr
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidConfiguration, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidConfiguration, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidConfiguration, err)
	}
	if err := schemaCompiled.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidConfiguration, err)
	}
	return nil
}
