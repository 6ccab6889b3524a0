package main

import (
	"encoding/json"
	"net/http"
	"regexp"

	"cariri/internal/store"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Register custom validation for Brazilian 2-letter state codes
	Validate.RegisterValidation("brstate", func(fl validator.FieldLevel) bool {
		matched, _ := regexp.MatchString(`^[A-Z]{2}$`, fl.Field().String())
		return matched
	})

	// The category set holds accented values, which oneof tags handle poorly
	Validate.RegisterValidation("eventcategory", func(fl validator.FieldLevel) bool {
		return store.ValidCategory(fl.Field().String())
	})

	// Regional city codes for user profiles
	Validate.RegisterValidation("cariricity", func(fl validator.FieldLevel) bool {
		return store.ValidCity(fl.Field().String())
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}

	return writeJSON(w, status, &envelope{
		Success: false,
		Message: message,
		Status:  status,
	})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Data any `json:"data"`
	}
	return writeJSON(w, status, &envelope{Data: data})
}
