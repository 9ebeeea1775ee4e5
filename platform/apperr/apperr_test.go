package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(kind %d) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestResponseCodeFallsBackToKind(t *testing.T) {
	if got := NotFound("x").ResponseCode(); got != CodeNotFound {
		t.Fatalf("ResponseCode() = %s, want %s", got, CodeNotFound)
	}
}

func TestResponseCodePrefersExplicitCode(t *testing.T) {
	err := Conflict("no stock").WithCode(CodeInsufficientStock)
	if got := err.ResponseCode(); got != CodeInsufficientStock {
		t.Fatalf("ResponseCode() = %s, want %s", got, CodeInsufficientStock)
	}
	if !HasCode(err, CodeInsufficientStock) {
		t.Fatal("HasCode() = false")
	}
}

func TestErrorIncludesOp(t *testing.T) {
	err := Internal("boom").WithOp("quotations.create")
	if got, want := err.Error(), "quotations.create: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := Wrap(KindInternal, "tx failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is did not find the wrapped cause")
	}
}

func TestIsChecksKind(t *testing.T) {
	if !Is(NotFound("x"), KindNotFound) {
		t.Fatal("Is(NotFound, KindNotFound) = false")
	}
	if Is(errors.New("plain"), KindNotFound) {
		t.Fatal("Is(plain error, KindNotFound) = true")
	}
}
