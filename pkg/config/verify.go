package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]interface{}
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// every top level section of the config must be known to the schema
	if props, ok := schemaProperties(schema); ok {
		for key := range configMap {
			if _, found := props[key]; !found {
				return fmt.Errorf("section %q is not in schema", key)
			}
		}
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// schemaProperties returns properties of the Config definition, reflected schemas keep them under $defs
func schemaProperties(schema map[string]interface{}) (map[string]interface{}, bool) {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props, true
	}
	defs, ok := schema["$defs"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	def, ok := defs["Config"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	props, ok := def["properties"].(map[string]interface{})
	return props, ok
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Reddit.BaseURL == "" {
		return fmt.Errorf("reddit.base_url is required")
	}
	if cfg.Reddit.UserAgent == "" {
		return fmt.Errorf("reddit.user_agent is required")
	}
	if cfg.Collect.OutputDir == "" {
		return fmt.Errorf("collect.output_dir is required")
	}
	if cfg.Collect.KeywordsFile == "" {
		return fmt.Errorf("collect.keywords_file is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
