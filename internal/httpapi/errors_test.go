package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"aiengine/pkg/types"
)

func TestStatusAndMessage(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &types.ValidationError{Message: types.MsgNoDataset}, http.StatusBadRequest, types.MsgNoDataset},
		{"collaborator", collaborator("op", errors.New("model not found: x")), http.StatusInternalServerError, "model not found: x"},
		{"wrapped collaborator", fmt.Errorf("ctx: %w", collaborator("op", errors.New("bad"))), http.StatusInternalServerError, "bad"},
		{"framework", &frameworkError{err: errors.New("unexpected EOF")}, http.StatusInternalServerError, types.MsgInternalServerError},
		{"unclassified", errors.New("secret"), http.StatusInternalServerError, types.MsgInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := statusAndMessage(tc.err)
			if status != tc.status || msg != tc.msg {
				t.Fatalf("got %d %q want %d %q", status, msg, tc.status, tc.msg)
			}
		})
	}
}

func TestCollaboratorErrorUnwraps(t *testing.T) {
	base := errors.New("base")
	err := collaborator("op", base)
	if !errors.Is(err, base) {
		t.Fatalf("expected errors.Is to find base")
	}
}
