package scrubber

import (
	"fmt"
	"time"
)

type footerModel struct {
	lastError string
	lastSaved time.Time
}

func newFooterModel() footerModel {
	return footerModel{}
}

func (f footerModel) view(width int) string {
	hints := " q quit  ? help  ←/→ move  [/] pin"
	if !f.lastSaved.IsZero() {
		hints += fmt.Sprintf("  saved %s", f.lastSaved.Local().Format("15:04:05"))
	}
	if f.lastError != "" {
		hints += "  " + errorStyle.Render("err: "+f.lastError)
	}
	return footerStyle.Width(width).Render(hints)
}
