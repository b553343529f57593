package tui

import (
	"encoding/json"
	"io"
)

// JSONLPresenter renders output as newline-delimited JSON.
type JSONLPresenter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONLPresenter creates a new JSONL presenter.
func NewJSONLPresenter(opts PresenterOptions) *JSONLPresenter {
	encoder := json.NewEncoder(opts.Writer)
	// No indentation for JSONL
	return &JSONLPresenter{
		w:       opts.Writer,
		encoder: encoder,
	}
}

// RenderStatus renders the tool status as JSONL.
func (p *JSONLPresenter) RenderStatus(status *StatusView) error {
	return p.encoder.Encode(status)
}

// RenderSelections renders selections as JSONL (one per line).
func (p *JSONLPresenter) RenderSelections(selections []*SelectionView) error {
	for _, s := range selections {
		if err := p.encoder.Encode(s); err != nil {
			return err
		}
	}
	return nil
}

// RenderTimelines renders timelines as JSONL (one per line).
func (p *JSONLPresenter) RenderTimelines(timelines []*TimelineView) error {
	for _, t := range timelines {
		if err := p.encoder.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary renders a chart summary as JSONL: the chart first, then
// one line per series.
func (p *JSONLPresenter) RenderSummary(summary *SummaryView) error {
	head := *summary
	head.Series = nil
	if err := p.encoder.Encode(head); err != nil {
		return err
	}
	for _, s := range summary.Series {
		if err := p.encoder.Encode(s); err != nil {
			return err
		}
	}
	return nil
}

// RenderConfig renders the configuration as JSONL.
func (p *JSONLPresenter) RenderConfig(config *ConfigView) error {
	return p.encoder.Encode(config)
}

// RenderError renders an error message as JSONL.
func (p *JSONLPresenter) RenderError(err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return p.encoder.Encode(output)
}

// RenderMessage renders a simple message as JSONL.
func (p *JSONLPresenter) RenderMessage(message string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: message,
	}
	return p.encoder.Encode(output)
}

// Ensure JSONLPresenter implements Presenter
var _ Presenter = (*JSONLPresenter)(nil)
