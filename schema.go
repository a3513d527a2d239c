package linterkit

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonschema"
)

//go:embed schema/linter.schema.json
var linterSchemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema describing linter configuration files
func Schema() []byte {
	return linterSchemaJSON
}

func linterSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile(linterSchemaJSON)
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks raw JSON configuration against the embedded schema
func ValidateSchema(data []byte) error {
	schema, err := linterSchema()
	if err != nil {
		return fmt.Errorf("failed to compile linter schema: %w", err)
	}

	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	result := schema.Validate(instance)
	if result.IsValid() {
		return nil
	}

	messages := collectSchemaErrors(result, nil)
	if len(messages) == 0 {
		return fmt.Errorf("schema validation failed")
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(messages, "; "))
}

func collectSchemaErrors(result *jsonschema.EvaluationResult, messages []string) []string {
	if result == nil || result.Valid {
		return messages
	}

	keys := make([]string, 0, len(result.Errors))
	for key := range result.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		location := result.InstanceLocation
		if location == "" {
			location = "/"
		}
		messages = append(messages, fmt.Sprintf("%s: %s", location, result.Errors[key].Error()))
	}

	for _, detail := range result.Details {
		messages = collectSchemaErrors(detail, messages)
	}
	return messages
}
