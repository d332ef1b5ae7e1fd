package controllers

import (
	"blog-app/models"
	"blog-app/validation"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestParseID(t *testing.T) {
	cases := map[string]bool{"1": true, "42": true, "0": false, "-3": false, "abc": false, "": false, "7.json": true, ".json": false, "7.xml": false}
	for raw, want := range cases {
		if _, ok := parseID(raw); ok != want {
			t.Fatalf("parseID(%q) ok=%v want %v", raw, ok, want)
		}
	}
}

func TestWriteStoreError(t *testing.T) {
	verr := &validation.ValidationError{}
	verr.Add("title can't be blank")

	cases := []struct {
		err  error
		code int
		body string
	}{
		{errors.Wrap(verr, "create"), http.StatusUnprocessableEntity, `"errors":["title can't be blank"]`},
		{errors.Wrap(models.ErrPostNotFound, "update"), http.StatusNotFound, "Post not found"},
		{errors.New("connection refused"), http.StatusInternalServerError, "Failed"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeStoreError(rec, "Failed", tc.err)
		if rec.Code != tc.code || !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("%v: got %d %s", tc.err, rec.Code, rec.Body.String())
		}
	}
}

func TestAdminFallbackRejectsOtherMethods(t *testing.T) {
	h := &AdminHandler{}
	rec := httptest.NewRecorder()
	h.Fallback(rec, httptest.NewRequest(http.MethodPost, "/admin/whatever", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
