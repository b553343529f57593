package tui

import (
	"fmt"
	"io"
)

// labelWidth aligns the values of field rows.
const labelWidth = 14

// tableWriter writes presenter output and keeps the first write error.
// Writes after a failure are dropped.
type tableWriter struct {
	w   io.Writer
	err error
}

func (tw *tableWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *tableWriter) println(args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, args...)
}

// field writes an aligned "label value" row indented by indent spaces.
func (tw *tableWriter) field(indent int, label, value string) {
	tw.printf("%*s%-*s %s\n", indent, "", labelWidth, label, value)
}

// Err returns the first write error, or nil.
func (tw *tableWriter) Err() error {
	return tw.err
}
