package relief_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	relief "github.com/tonich-sh/relief"
	"github.com/tonich-sh/relief/schema"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := relief.Issues{
		{Path: "/0/1", Message: "May not be blank."},
	}
	if got := iss.Error(); got != "May not be blank. at /0/1" {
		t.Fatalf("unexpected summary: %q", got)
	}

	iss = relief.Issues{
		{Path: "/0", Message: "a"},
		{Path: "/1", Message: "b"},
		{Path: "/2", Message: "c"},
		{Path: "/3", Message: "d"},
	}
	got := iss.Error()
	if !strings.Contains(got, "... (total 4)") {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	if strings.Contains(got, "d at /3") {
		t.Fatalf("expected only the first three, got %q", got)
	}
}

func TestAsIssues(t *testing.T) {
	iss := relief.Issues{{Path: "/", Message: "x"}}
	wrapped := fmt.Errorf("handling form: %w", iss)

	got, ok := relief.AsIssues(wrapped)
	if !ok || len(got) != 1 || got[0].Message != "x" {
		t.Fatalf("expected unwrap, got %v %v", got, ok)
	}
	if _, ok := relief.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not issues")
	}
	if _, ok := relief.AsIssues(nil); ok {
		t.Fatalf("nil is not issues")
	}
}

func TestCollectIssues_SeesContainerAndLeafErrors(t *testing.T) {
	d := schema.DictOf(schema.String(), schema.Integer()).
		NewDict(relief.Of(map[string]any{"a": 1}))
	d.AddError("container broke")
	el, _ := d.At("a")
	el.AddError("leaf broke")

	iss := relief.CollectIssues(d)
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
	if iss[0].Path != "/" || iss[0].Message != "container broke" {
		t.Fatalf("expected container issue first, got %v", iss[0])
	}
	if iss[1].Path != "/0/1" || iss[1].Message != "leaf broke" {
		t.Fatalf("expected leaf issue at /0/1, got %v", iss[1])
	}
}

func TestNotFoundError_Message(t *testing.T) {
	err := &relief.NotFoundError{Key: "alpha"}
	if got := err.Error(); got != "key not found: alpha" {
		t.Fatalf("unexpected message: %q", got)
	}
}
