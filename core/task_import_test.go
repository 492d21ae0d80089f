package core

import (
	"strings"
	"testing"
)

func TestParseTaskBundle_Valid(t *testing.T) {
	t.Parallel()

	data := []byte(`
tasks:
  - title: "  Buy milk  "
    description: " two bottles "
  - title: Walk the dog
    completed: true
`)
	items, err := ParseTaskBundle(data)
	if err != nil {
		t.Fatalf("ParseTaskBundle error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Buy milk" || items[0].Description != "two bottles" {
		t.Fatalf("expected trimmed fields, got %+v", items[0])
	}
	if !items[1].Completed {
		t.Fatalf("expected second task to be completed")
	}
}

func TestParseTaskBundle_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no tasks", "tasks: []"},
		{"missing title", "tasks:\n  - description: orphan"},
		{"title too long", "tasks:\n  - title: " + strings.Repeat("x", 201)},
		{"not yaml", "{{{"},
	}
	for _, tc := range cases {
		if _, err := ParseTaskBundle([]byte(tc.data)); err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestParseTaskBundle_TooManyTasks(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("tasks:\n")
	for i := 0; i <= maxImportTasks; i++ {
		b.WriteString("  - title: task\n")
	}
	if _, err := ParseTaskBundle([]byte(b.String())); err == nil {
		t.Fatalf("expected error for oversized bundle")
	}
}
