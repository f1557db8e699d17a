package handler

import (
	"encoding/json"
	"net/http"

	customError "github.com/segyhp/loan-ops/pkg/errors"
	"github.com/segyhp/loan-ops/pkg/response"

	"github.com/go-playground/validator/v10"
)

// decode reads a JSON body into dst and validates it. On failure the error
// response has already been written.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}

	if err := v.Struct(dst); err != nil {
		response.ValidationFailed(w, customError.WrapValidation(err), ToFieldErrors(err))
		return false
	}

	return true
}
