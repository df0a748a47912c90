package analysis

// Report is the JSON form of the analysis results. Paths are relative to the library root.
type Report struct {
	Total              int       `json:"total"`
	Reachable          int       `json:"reachable"`
	Unused             int       `json:"unused"`
	EntryPoints        []string  `json:"entry_points"`         // entry points used as traversal roots
	MissingEntryPoints []string  `json:"missing_entry_points"` // configured, but not found
	UnusedFiles        []string  `json:"unused_files"`
	UsedFiles          []string  `json:"used_files"`
	Failures           []Failure `json:"failures"` // files which contributed no edges as they could not be read
}

// Failure represents a file which could not be resolved.
type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}
