package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := NotFound("no bucket found with the bucket_id provided")
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf: expected KindNotFound, got %v", KindOf(err))
	}

	wrapped := fmt.Errorf("delete bucket: %w", err)
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("KindOf (wrapped): expected KindNotFound, got %v", KindOf(wrapped))
	}

	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("KindOf (plain): expected KindUnknown")
	}
}

func TestNotFoundAndForbiddenAreDistinct(t *testing.T) {
	nf := NotFound("missing")
	fb := Forbidden("not enough permissions")

	if errors.Is(nf, fb) {
		t.Fatalf("not-found must not match forbidden")
	}
	if nf.Kind.Status() == fb.Kind.Status() {
		t.Fatalf("not-found and forbidden must map to different statuses")
	}
	if got := nf.Kind.Status(); got != http.StatusNotFound {
		t.Fatalf("not-found status: expected 404, got %d", got)
	}
	if got := fb.Kind.Status(); got != http.StatusBadRequest {
		t.Fatalf("forbidden status: expected 400, got %d", got)
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("file type not supported"), http.StatusBadRequest},
		{Conflict("table already exists"), http.StatusBadRequest},
		{Unauthorized("could not validate credentials"), http.StatusForbidden},
		{Backend("emptying bucket failed", errors.New("io")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.status {
			t.Fatalf("StatusOf(%v): expected %d, got %d", tc.err, tc.status, got)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindBackend, "downloading file failed", errors.New("connection reset"))
	want := "downloading file failed: connection reset"
	if err.Error() != want {
		t.Fatalf("Error(): expected %q, got %q", want, err.Error())
	}
}
