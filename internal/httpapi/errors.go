package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"aiengine/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// collaboratorError wraps a failure raised by the processor, the insight
// generator or the model manager. Its message is returned to the client.
type collaboratorError struct {
	op    string
	err   error
	stack []byte
}

func collaborator(op string, err error) error {
	return &collaboratorError{op: op, err: err, stack: debug.Stack()}
}

func (e *collaboratorError) Error() string   { return e.err.Error() }
func (e *collaboratorError) Unwrap() error   { return e.err }
func (e *collaboratorError) StatusCode() int { return http.StatusInternalServerError }

// frameworkError covers failures outside the endpoint logic: unreadable
// bodies and recovered panics. Clients only see a generic message.
type frameworkError struct {
	err   error
	stack []byte
}

func (e *frameworkError) Error() string   { return e.err.Error() }
func (e *frameworkError) Unwrap() error   { return e.err }
func (e *frameworkError) StatusCode() int { return http.StatusInternalServerError }

// statusAndMessage maps err to the response status and the message exposed
// to the client.
func statusAndMessage(err error) (int, string) {
	var fe *frameworkError
	if errors.As(err, &fe) {
		return fe.StatusCode(), types.MsgInternalServerError
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode(), he.Error()
	}
	return http.StatusInternalServerError, types.MsgInternalServerError
}

// encodeJSON returns v encoded the way json.Encoder writes it, trailing
// newline included.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}
