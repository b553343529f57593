package scrubber

import "time"

type commitDoneMsg struct {
	startTime time.Time
}

type commitErrorMsg struct {
	err error
}
