package utils

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello":                   "hello",
		"Hello, World!":           "hello-world",
		"  Crème brûlée  recipe ": "creme-brulee-recipe",
		"Go 1.23 -- released":     "go-1-23-released",
		"!!!":                     "",
		"":                        "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNextAvailableSlug(t *testing.T) {
	if got := NextAvailableSlug("hello", nil); got != "hello" {
		t.Fatalf("free base: got %q", got)
	}
	if got := NextAvailableSlug("hello", []string{"hello"}); got != "hello-2" {
		t.Fatalf("taken base: got %q", got)
	}
	if got := NextAvailableSlug("hello", []string{"hello", "hello-2", "hello-4"}); got != "hello-3" {
		t.Fatalf("gap: got %q", got)
	}
}

func TestParsePage(t *testing.T) {
	for in, want := range map[string]int{"": 1, "abc": 1, "0": 1, "-3": 1, "2": 2} {
		if got := ParsePage(in); got != want {
			t.Fatalf("ParsePage(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, DefaultPerPage, 13)
	if p.TotalPages != 3 || p.Offset() != 6 {
		t.Fatalf("unexpected pagination: %+v offset=%d", p, p.Offset())
	}
	if !p.HasPrev() || !p.HasNext() {
		t.Fatalf("page 2 of 3 should have prev and next")
	}
	last := NewPagination(3, DefaultPerPage, 13)
	if last.HasNext() {
		t.Fatalf("last page must not have next")
	}
	huge := NewPagination(ParsePage(strconv.Itoa(math.MaxInt)), DefaultPerPage, 13)
	if huge.Offset() < 0 || huge.HasNext() || !huge.HasPrev() {
		t.Fatalf("huge page must clamp to a non-negative offset: %+v offset=%d", huge, huge.Offset())
	}
	empty := NewPagination(1, 0, 0)
	if empty.PerPage != DefaultPerPage || empty.TotalPages != 0 || empty.HasNext() {
		t.Fatalf("unexpected empty pagination: %+v", empty)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	out := string(MarkdownToHTML("# Title\n\n<script>x</script>"))
	if !strings.Contains(out, "<h1>Title</h1>") {
		t.Fatalf("heading not rendered: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw html must be escaped: %s", out)
	}
}
