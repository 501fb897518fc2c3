package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	t "github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/validator"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

// maxBodyBytes bounds request bodies. Terminal and tracker payloads are a few
// coordinates and ids.
const maxBodyBytes = 64 << 10

// readJSON decodes a single JSON object into dst and turns decoder failures
// into messages a device client can show.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			syntaxErr   *json.SyntaxError
			typeErr     *json.UnmarshalTypeError
			maxBytesErr *http.MaxBytesError
		)
		switch {
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return fmt.Errorf("body contains incorrect JSON type for field %q", typeErr.Field)
		case errors.As(err, &typeErr):
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeErr.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesErr):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesErr.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// GetCode maps domain errors onto HTTP statuses.
func GetCode(err error) int {
	switch {
	case IsOneOf(err, t.ErrValidation, t.ErrInvalidCoordinate):
		return http.StatusUnprocessableEntity
	case IsOneOf(err, t.ErrInvalidToken):
		return http.StatusUnauthorized
	case IsOneOf(err, t.ErrNotFound):
		return http.StatusNotFound
	case IsOneOf(err, t.ErrLocationUnavailable, t.ErrInvalidTransition):
		return http.StatusConflict
	case IsOneOf(err, t.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
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

// pathBusID reads and checks the bus_id path value, answering 422 when it is malformed.
func pathBusID(w http.ResponseWriter, r *http.Request) (string, bool) {
	busID := strings.TrimSpace(r.PathValue("bus_id"))

	v := validator.New()
	v.Check(validator.Matches(busID, validator.BusIDRX), "bus_id", "must be 1-64 letters, digits, '_' or '-'")
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return "", false
	}
	return busID, true
}
