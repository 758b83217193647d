package engine

const logCapacity = 2

// ActionLog keeps the most recent status lines, newest first.
type ActionLog struct {
	lines []string
}

// Add pushes a line, dropping the oldest beyond capacity.
func (l *ActionLog) Add(line string) {
	l.lines = append([]string{line}, l.lines...)
	if len(l.lines) > logCapacity {
		l.lines = l.lines[:logCapacity]
	}
}

// Lines returns a copy of the log, newest first.
func (l ActionLog) Lines() []string {
	return append([]string(nil), l.lines...)
}

func (l *ActionLog) Clear() {
	l.lines = nil
}
