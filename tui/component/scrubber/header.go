package scrubber

import (
	"fmt"
	"time"
)

const headerTimeLayout = "2006-01-02 15:04:05"

type headerModel struct {
	title string
	loc   *time.Location
}

func newHeaderModel(title string, loc *time.Location) headerModel {
	if title == "" {
		title = "timeline"
	}
	return headerModel{title: title, loc: loc}
}

func (h headerModel) view(width int, start, end, selected time.Time) string {
	content := fmt.Sprintf(" timescope │ %s │ %s → %s │ start %s",
		h.title,
		start.In(h.loc).Format(headerTimeLayout),
		end.In(h.loc).Format(headerTimeLayout),
		selected.In(h.loc).Format(headerTimeLayout))
	return titleStyle.Width(width).Render(content)
}
