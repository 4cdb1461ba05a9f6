package model

import (
	"fmt"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateTemplateMap validates a decoded template document against the
// template.schema.json file before it is handed to the engine.
func ValidateTemplateMap(m map[string]interface{}) error {
	// Use absolute canonical file:// path for the schema so loaders on all
	// platforms (including Windows) resolve file references correctly.
	abs, err := filepath.Abs("templates/template.schema.json")
	if err != nil {
		return err
	}
	schemaPath := "file://" + filepath.ToSlash(abs)
	schemaLoader := gojsonschema.NewReferenceLoader(schemaPath)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("template validation failed: %s", msgs)
}
