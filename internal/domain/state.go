package domain

import (
	"fmt"
	"time"
)

// AppState is an immutable snapshot of the dashboard: the criteria last
// applied and the working set they produced. Callers own the reference to
// the current snapshot and replace it on every fetch.
type AppState struct {
	Criteria   FilterCriteria `json:"criteria"`
	WorkingSet []Notam        `json:"working_set"`
	LastUpdate time.Time      `json:"last_update"`
}

// InitialState previews the first n records of the store without applying
// any filter.
func InitialState(store *Store, n int, at time.Time) AppState {
	records := store.Records()
	if n >= 0 && n < len(records) {
		records = records[:n]
	}
	return AppState{WorkingSet: records, LastUpdate: at}
}

// NextState recomputes the working set from the full store for criteria.
func NextState(store *Store, criteria FilterCriteria, at time.Time) AppState {
	c := criteria.Normalize()
	return AppState{
		Criteria:   c,
		WorkingSet: ApplyFilters(store.Records(), c),
		LastUpdate: at,
	}
}

// FetchMessage summarizes a fetch for display.
func FetchMessage(fetched, connectedSources int) string {
	return fmt.Sprintf("Fetched %d NOTAMs from %d sources", fetched, connectedSources)
}
