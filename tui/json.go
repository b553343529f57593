package tui

import (
	"encoding/json"
	"io"
)

// JSONPresenter renders output as JSON.
type JSONPresenter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter.
func NewJSONPresenter(opts PresenterOptions) *JSONPresenter {
	encoder := json.NewEncoder(opts.Writer)
	encoder.SetIndent("", "  ")
	return &JSONPresenter{
		w:       opts.Writer,
		encoder: encoder,
	}
}

// RenderStatus renders the tool status as JSON.
func (p *JSONPresenter) RenderStatus(status *StatusView) error {
	return p.encoder.Encode(status)
}

// RenderSelections renders selections as a JSON array.
func (p *JSONPresenter) RenderSelections(selections []*SelectionView) error {
	if selections == nil {
		selections = []*SelectionView{}
	}
	return p.encoder.Encode(selections)
}

// RenderTimelines renders timelines as a JSON array.
func (p *JSONPresenter) RenderTimelines(timelines []*TimelineView) error {
	if timelines == nil {
		timelines = []*TimelineView{}
	}
	return p.encoder.Encode(timelines)
}

// RenderSummary renders a chart summary as JSON.
func (p *JSONPresenter) RenderSummary(summary *SummaryView) error {
	return p.encoder.Encode(summary)
}

// RenderConfig renders the configuration as JSON.
func (p *JSONPresenter) RenderConfig(config *ConfigView) error {
	return p.encoder.Encode(config)
}

// RenderError renders an error message as JSON.
func (p *JSONPresenter) RenderError(err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return p.encoder.Encode(output)
}

// RenderMessage renders a simple message as JSON.
func (p *JSONPresenter) RenderMessage(message string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: message,
	}
	return p.encoder.Encode(output)
}

// Ensure JSONPresenter implements Presenter
var _ Presenter = (*JSONPresenter)(nil)
