package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/auth"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)

	return nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		// encoding/json has no typed error for unknown fields (golang/go#29035)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			return fmt.Errorf("invalid unmarshal error: %w", err)
		case strings.Contains(err.Error(), "parsing time"):
			return errors.New("body contains an invalid timestamp, expected RFC 3339")
		default:
			return err
		}
	}

	// a second Decode must hit EOF, otherwise the body holds more than one value
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readString returns the query value or defaultValue when it is absent.
func readString(qs url.Values, key string, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

// readInt parses an integer query value, recording a validation error on failure.
func readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return i
}

func GetCode(err error) int {
	switch {
	case IsOneOf(err, types.ErrUserNotFound, types.ErrSessionNotFound, types.ErrNotFound):
		return http.StatusNotFound
	case IsOneOf(err, types.ErrUserAlreadyExists):
		return http.StatusConflict
	case IsOneOf(err, auth.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrExpToken):
		return http.StatusUnauthorized
	case IsOneOf(err, types.ErrInvalidSession):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var clientErrors = []error{
	types.ErrUserNotFound,
	types.ErrSessionNotFound,
	types.ErrNotFound,
	types.ErrUserAlreadyExists,
	types.ErrInvalidSession,
	auth.ErrInvalidCredentials,
	auth.ErrInvalidToken,
	auth.ErrExpToken,
}

// errorMessage returns the text of a known client error and hides everything else.
func errorMessage(err error) string {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "the server encountered a problem and could not process your request"
}
