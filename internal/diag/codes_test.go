package diag

import (
	"reflect"
	"testing"
)

func TestParseCodeList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Code
	}{
		{"plain list", "E501,SA4006", []Code{"E501", "SA4006"}},
		{"spaces trimmed", " E501 , SA4006 ", []Code{"E501", "SA4006"}},
		{"empty entries dropped", "E501,,SA4006,", []Code{"E501", "SA4006"}},
		{"empty string", "", []Code{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCodeList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCodeList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCodeSet(t *testing.T) {
	s := NewCodeSet("E501", "SA4006")
	if !s.Has("E501") || !s.Has("SA4006") {
		t.Error("expected initial members present")
	}
	if s.Has("ST1000") {
		t.Error("unexpected member")
	}
	s.Add("ST1000")
	if !s.Has("ST1000") {
		t.Error("Add did not insert the code")
	}
}
