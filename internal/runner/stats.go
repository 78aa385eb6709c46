package runner

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total        int
	FilesRenamed int
	DirsRenamed  int
	Skipped      int
	Failed       int
}
