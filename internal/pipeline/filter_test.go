package pipeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Filter
		wantErr error
	}{
		{input: "", want: FilterNewline},
		{input: "newline", want: FilterNewline},
		{input: "Blank", want: FilterBlank},
		{input: " blank ", want: FilterBlank},
		{input: "all", wantErr: ErrUnknownFilter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFilter(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	input := []Fragment{
		{Kind: KindText, Text: "\n"},
		{Kind: KindText, Text: "first"},
		{Kind: KindText, Text: ""},
		{Kind: KindText, Text: " "},
		{Kind: KindText, Text: "\n\n"},
		{Kind: KindText, Text: "\t"},
		{Kind: KindComment, Text: "\n"},
		{Kind: KindText, Text: "last\n"},
		{Kind: KindText, Text: "\n"},
	}

	t.Run("newline drops only exact newline", func(t *testing.T) {
		t.Parallel()

		want := []Fragment{
			{Kind: KindText, Text: "first"},
			{Kind: KindText, Text: ""},
			{Kind: KindText, Text: " "},
			{Kind: KindText, Text: "\n\n"},
			{Kind: KindText, Text: "\t"},
			{Kind: KindText, Text: "last\n"},
		}
		got := FilterNewline.Apply(input)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Apply() = %#v, want %#v", got, want)
		}
	})

	t.Run("blank drops whitespace-only", func(t *testing.T) {
		t.Parallel()

		want := []Fragment{
			{Kind: KindText, Text: "first"},
			{Kind: KindText, Text: "last\n"},
		}
		got := FilterBlank.Apply(input)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Apply() = %#v, want %#v", got, want)
		}
	})

	t.Run("input is not modified", func(t *testing.T) {
		t.Parallel()

		before := append([]Fragment(nil), input...)
		_ = FilterBlank.Apply(input)
		if !reflect.DeepEqual(input, before) {
			t.Error("Apply() modified its input")
		}
	})
}
