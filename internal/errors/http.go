package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape every failed request returns.
type errorBody struct {
	Error string `json:"error"`
}

// WriteHTTP writes err as a JSON error body with the status derived from
// its code. Errors without a code are treated as internal and reported
// with a generic message so handler bugs never leak stack traces or
// driver internals to clients.
func WriteHTTP(w http.ResponseWriter, err error) {
	code := GetCode(err)

	msg := GetMessage(err)
	if code == CodeInternal || code == CodeDataLoss {
		var customErr *Error
		if !As(err, &customErr) {
			msg = "internal server error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
