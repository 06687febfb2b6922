package lint

import (
	"reflect"
	"testing"

	"polylint/internal/diag"
)

func TestParseLocations(t *testing.T) {
	output := "# polylint/internal/app\n" +
		"internal/app/app.go:10:2: unreachable code\n" +
		"internal/app/app.go:12: printf call has arguments but no formatting directives\n" +
		"internal/app/other.go:3:1: this value is never used (SA4006)\n" +
		"exit status 1\n"

	got := ParseLocations(output, "vet")
	want := []Finding{
		{Path: "internal/app/app.go", Line: 10, Col: 2, Code: "vet", Message: "unreachable code"},
		{Path: "internal/app/app.go", Line: 12, Code: "vet", Message: "printf call has arguments but no formatting directives"},
		{Path: "internal/app/other.go", Line: 3, Col: 1, Code: "SA4006", Message: "this value is never used"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLocations() = %+v, want %+v", got, want)
	}
}

func TestParseLocationsSkipsNoise(t *testing.T) {
	if got := ParseLocations("\nrunning...\ndone\n", "x"); len(got) != 0 {
		t.Errorf("expected no findings, got %+v", got)
	}
}

func TestParseLocationsCRLF(t *testing.T) {
	got := ParseLocations("a.go:1:1: msg\r\n", "x")
	if len(got) != 1 || got[0].Message != "msg" {
		t.Errorf("CRLF line not parsed: %+v", got)
	}
}

func TestParseFileList(t *testing.T) {
	got := ParseFileList("main.go\ninternal/app/app.go\n\n", diag.Code("gofmt"), "file is not gofmt-formatted")
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	for _, f := range got {
		if f.Line != 1 || f.Code != "gofmt" {
			t.Errorf("unexpected finding %+v", f)
		}
	}
}
