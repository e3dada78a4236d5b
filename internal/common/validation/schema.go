package validation

import (
	"fmt"
	"strings"

	apperrors "realty-crm/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaSet holds compiled JSON schemas keyed by name.
type SchemaSet struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaSet compiles every schema up front so a malformed definition
// fails at startup rather than on first use.
func NewSchemaSet(defs map[string]string) (*SchemaSet, error) {
	set := &SchemaSet{schemas: make(map[string]*gojsonschema.Schema, len(defs))}
	for name, def := range defs {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
		if err != nil {
			return nil, fmt.Errorf("compile schema %q: %w", name, err)
		}
		set.schemas[name] = schema
	}
	return set, nil
}

func (s *SchemaSet) Has(name string) bool {
	_, ok := s.schemas[name]
	return ok
}

// Validate checks doc against the named schema.
func (s *SchemaSet) Validate(name string, doc map[string]interface{}) error {
	schema, ok := s.schemas[name]
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("no schema registered for %q", name))
	}

	if doc == nil {
		doc = map[string]interface{}{}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("schema %q: %v", name, err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		msgs[i] = desc.String()
	}
	return apperrors.NewValidationError(strings.Join(msgs, "; "))
}
