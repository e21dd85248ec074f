package favorites

import (
	"github.com/xeipuuv/gojsonschema"
)

// Persisted payload shape. Anything that fails this check is treated as a
// corrupt slot and recovered to an empty list at load time.
const payloadSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["key", "doc"],
		"properties": {
			"key": {"type": "string"},
			"doc": {"type": "object"}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

func validPayload(data []byte) bool {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return false
	}
	return res.Valid()
}
