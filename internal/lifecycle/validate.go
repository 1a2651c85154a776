package lifecycle

import (
	"sort"
	"strings"

	apperrors "driver-portal/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// requiredFields is the intake subset every submission must carry non-empty.
var requiredFields = []string{"firstName", "lastName", "email", "phone"}

const submissionSchema = `{
	"type": "object",
	"required": ["firstName", "lastName", "email", "phone"],
	"properties": {
		"firstName": {"type": "string", "minLength": 1},
		"lastName":  {"type": "string", "minLength": 1},
		"email":     {"type": "string", "minLength": 3},
		"phone":     {"type": "string", "minLength": 1}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(submissionSchema)

// validateSubmission checks the required-field subset is present and
// non-empty. Whitespace-only values count as missing.
func validateSubmission(fields map[string]interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(fields))
	if err != nil {
		return apperrors.NewValidationFailedError(requiredFields)
	}

	missing := map[string]bool{}
	for _, verr := range result.Errors() {
		if verr.Type() == "required" {
			if prop, ok := verr.Details()["property"].(string); ok {
				missing[prop] = true
				continue
			}
		}
		missing[verr.Field()] = true
	}

	// Schema minLength does not catch whitespace-only strings.
	for _, key := range requiredFields {
		if raw, ok := fields[key].(string); ok && strings.TrimSpace(raw) == "" {
			missing[key] = true
		}
	}

	if len(missing) == 0 {
		return nil
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return apperrors.NewValidationFailedError(names)
}
