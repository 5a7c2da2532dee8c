package models

import "errors"

// ErrMissingTopic is returned by Validate when a request has no topic.
var ErrMissingTopic = errors.New("request topic is required")

// Default values applied by NewRequest and Normalize.
const (
	// DefaultTheme is used when a request names no theme, and is the
	// fallback for unknown theme names.
	DefaultTheme = "corporate"
	// DefaultNumSlides is the target slide count when none is requested.
	DefaultNumSlides = 5
	// DefaultOutputFilename is used when a request names no output file.
	DefaultOutputFilename = "presentation.pptx"
)

// Request describes one presentation to generate. Topic is the only
// required field; everything else has a documented default.
type Request struct {
	// Topic drives outline and content generation.
	Topic string `json:"topic"`
	// DataFile is an optional spreadsheet path. Its presence triggers
	// the research phase.
	DataFile string `json:"data_file,omitempty"`
	// Theme names a visual theme. Unknown names resolve to the
	// corporate theme.
	Theme string `json:"theme,omitempty"`
	// OutputFilename is the target file name for the built document.
	OutputFilename string `json:"output_filename,omitempty"`
	// NumSlides is the target slide count hint.
	NumSlides int `json:"num_slides,omitempty"`
	// PresentationType names a structure archetype in the catalog.
	PresentationType string `json:"presentation_type,omitempty"`
	// IncludeCharts gates the chart sub-phase. NewRequest enables it;
	// a zero-value Request leaves charts off.
	IncludeCharts bool `json:"include_charts"`
	// Audience is forwarded to the generation collaborator.
	Audience string `json:"audience,omitempty"`
	// Tone is forwarded to the generation collaborator.
	Tone string `json:"tone,omitempty"`
}

// NewRequest creates a request for the given topic with all defaults
// applied, charts included.
func NewRequest(topic string) Request {
	r := Request{Topic: topic, IncludeCharts: true}
	r.Normalize()
	return r
}

// Normalize fills empty optional fields with their defaults. It does not
// touch IncludeCharts, whose default is applied by NewRequest.
func (r *Request) Normalize() {
	if r.Theme == "" {
		r.Theme = DefaultTheme
	}
	if r.NumSlides <= 0 {
		r.NumSlides = DefaultNumSlides
	}
	if r.OutputFilename == "" {
		r.OutputFilename = DefaultOutputFilename
	}
}

// Validate reports whether the request can be run at all.
func (r *Request) Validate() error {
	if r.Topic == "" {
		return ErrMissingTopic
	}
	return nil
}

// Result is the envelope returned for every generation run. Success
// selects which fields are meaningful: a successful run carries the
// output path, slide count, completed phase markers, and chart count; a
// failed run carries the error description and a snapshot of whatever
// phase results existed when the pipeline stopped.
type Result struct {
	// Success reports whether the full pipeline completed.
	Success bool `json:"success"`
	// OutputPath is the built document's path.
	OutputPath string `json:"output_path,omitempty"`
	// SlideCount is the number of slides in the built document.
	SlideCount int `json:"slide_count,omitempty"`
	// PhasesCompleted lists phase markers in completion order.
	PhasesCompleted []string `json:"phases_completed,omitempty"`
	// ChartsGenerated is the number of chart images embedded.
	ChartsGenerated int `json:"charts_generated,omitempty"`
	// SpeakerNotes holds per-slide notes when the post-process step ran.
	SpeakerNotes []string `json:"speaker_notes,omitempty"`
	// Error describes why the run failed.
	Error string `json:"error,omitempty"`
	// PhaseResults snapshots the phase payloads produced before a
	// failure stopped the pipeline.
	PhaseResults map[string]any `json:"phase_results,omitempty"`
}

// Failure builds a failed result preserving the partial phase payloads.
func Failure(err error, partial map[string]any) *Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Result{
		Success:      false,
		Error:        msg,
		PhaseResults: partial,
	}
}
