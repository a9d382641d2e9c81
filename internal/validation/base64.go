// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// Base64URL validates that a string is valid unpadded URL-safe base64 data.
// Payment tokens travel in this encoding.
var Base64URL = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64url_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	_, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return validation.NewError("validation_base64url", "must be valid URL-safe base64 data")
	}
	return nil
})
