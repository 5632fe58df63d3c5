package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int // regular files plus entries whose stat failed
	Renamed   int
	Unchanged int // name already final; rename still attempted
	Failed    int
	Skipped   int // not attempted because the run was interrupted
	NonFiles  int // directories, symlinks and special files
}

// Emitted returns how many directive lines the run produced.
func (s *RunStats) Emitted() int {
	return s.Renamed + s.Unchanged
}

func (s *RunStats) add(r Result) {
	switch r.Status {
	case StatusRenamed:
		s.Renamed++
	case StatusUnchanged:
		s.Unchanged++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}
