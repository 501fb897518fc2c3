package handler

import "net/http"

// storeRetryAfter is the hint sent with 503 answers while the fare store is down.
// The terminal keeps its state, so the driver can simply retry.
const storeRetryAfter = "5"

// errorResponse writes {"error": message}. A failed encode leaves only the status.
func errorResponse(w http.ResponseWriter, status int, message any) {
	var headers http.Header
	if status == http.StatusServiceUnavailable {
		headers = http.Header{"Retry-After": []string{storeRetryAfter}}
	}

	if err := writeJSON(w, status, envelope{"error": message}, headers); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failedValidationResponse answers 422 with the per-field messages of the validator.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse is for bodies and ids that cannot be parsed at all.
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}
