package db

// Storage formats shared by the query functions
const (
	// timeLayout is the text format of every timestamp column, compatible with
	// SQLite's date/time functions.
	timeLayout = "2006-01-02 15:04:05"

	// defaultHistoryLimit caps RecentLoads when the caller passes a non-positive limit.
	defaultHistoryLimit = 20

	// MaxLoadHistory is the number of load entries kept when pruning.
	MaxLoadHistory = 500
)
