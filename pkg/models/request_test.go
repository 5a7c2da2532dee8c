package models

import (
	"errors"
	"testing"
)

func TestNewRequest_Defaults(t *testing.T) {
	req := NewRequest("Q1 Sales Review")

	if req.Topic != "Q1 Sales Review" {
		t.Errorf("Topic = %q, want %q", req.Topic, "Q1 Sales Review")
	}
	if req.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want %q", req.Theme, DefaultTheme)
	}
	if req.NumSlides != DefaultNumSlides {
		t.Errorf("NumSlides = %d, want %d", req.NumSlides, DefaultNumSlides)
	}
	if req.OutputFilename != DefaultOutputFilename {
		t.Errorf("OutputFilename = %q, want %q", req.OutputFilename, DefaultOutputFilename)
	}
	if !req.IncludeCharts {
		t.Error("NewRequest should enable charts")
	}
}

func TestRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Request
		want Request
	}{
		{
			name: "fills all empty fields",
			in:   Request{Topic: "t"},
			want: Request{Topic: "t", Theme: DefaultTheme, NumSlides: DefaultNumSlides, OutputFilename: DefaultOutputFilename},
		},
		{
			name: "keeps explicit values",
			in:   Request{Topic: "t", Theme: "modern", NumSlides: 9, OutputFilename: "deck.pptx"},
			want: Request{Topic: "t", Theme: "modern", NumSlides: 9, OutputFilename: "deck.pptx"},
		},
		{
			name: "negative slide count resets to default",
			in:   Request{Topic: "t", NumSlides: -2},
			want: Request{Topic: "t", Theme: DefaultTheme, NumSlides: DefaultNumSlides, OutputFilename: DefaultOutputFilename},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", tt.in, tt.want)
			}
		})
	}
}

func TestRequest_NormalizeDoesNotTouchCharts(t *testing.T) {
	req := Request{Topic: "t"}
	req.Normalize()
	if req.IncludeCharts {
		t.Error("Normalize should not enable charts on a zero-value request")
	}
}

func TestRequest_Validate(t *testing.T) {
	req := Request{Topic: "t"}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	empty := Request{}
	if err := empty.Validate(); !errors.Is(err, ErrMissingTopic) {
		t.Errorf("Validate() = %v, want ErrMissingTopic", err)
	}
}

func TestFailure(t *testing.T) {
	partial := map[string]any{"content": map[string]any{"title": "x"}}
	res := Failure(errors.New("builder exploded"), partial)

	if res.Success {
		t.Error("Failure result should not be successful")
	}
	if res.Error != "builder exploded" {
		t.Errorf("Error = %q, want %q", res.Error, "builder exploded")
	}
	if res.PhaseResults["content"] == nil {
		t.Error("PhaseResults should preserve the partial snapshot")
	}

	if got := Failure(nil, nil); got.Error != "" {
		t.Errorf("Failure(nil, nil).Error = %q, want empty", got.Error)
	}
}
