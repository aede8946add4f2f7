// CUE schema validation code
package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"

	"phonedrain-sim/internal/fault"
)

//go:embed device.cue
var deviceSchema []byte

// schemaDefinition is the definition every device file must satisfy.
const schemaDefinition = "#Device"

// ValidateWithCue validates YAML device data against the #Device definition
// of a CUE schema.
func ValidateWithCue(yamlBytes, schemaBytes []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schemaBytes)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("%w: compile CUE schema: %v", fault.ErrConfiguration, err)
	}
	def := schemaVal.LookupPath(cue.ParsePath(schemaDefinition))
	if !def.Exists() {
		return fault.Configf("CUE schema has no %s definition", schemaDefinition)
	}

	if err := cueyaml.Validate(yamlBytes, def); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", fault.ErrConfiguration, err)
	}
	return nil
}
