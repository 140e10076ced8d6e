package handler

import "net/http"

// errorResponse writes a JSON error envelope. Internal details never leave
// the server, callers of internalErrorResponse pass a generic message.
func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"success": false, "error": message}

	// Write the response using the writeJSON() helper. If this happens to return an
	// error then fall back to sending the client an empty response with a
	// 500 Internal Server Error status code.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 400 BadRequest status with the
// per-field error map.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusBadRequest, errors)
}

// badRequestResponse returns 400 BadRequest status
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// internalErrorResponse returns 500 InternalServerError status
func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}

// serviceErrorResponse maps a service error to its HTTP status. Anything that
// maps to a 500 is masked with a generic message.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)
	if code == http.StatusInternalServerError {
		internalErrorResponse(w, "Internal Server Error")
		return
	}
	errorResponse(w, code, err.Error())
}
