package domain

import "time"

// IngestStats holds statistics about one ingestion batch.
type IngestStats struct {
	Fetched   int
	Inserted  int
	Updated   int
	Errors    int
	Published int
	Duration  time.Duration
}
