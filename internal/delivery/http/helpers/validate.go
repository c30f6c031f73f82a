package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator is implemented by request DTOs that can validate themselves.
// Validate returns a list of human-readable validation error messages;
// an empty list means the value is valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the JSON request body into dst and runs its
// Validate method. Unknown fields are rejected. On failure it writes a
// 400 response and returns false; the caller should return immediately.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst Validator) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return false
	}
	if errs := dst.Validate(); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}
