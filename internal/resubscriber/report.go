package resubscriber

import "fmt"

// OutcomeStatus says what happened to one monitored email during a run.
type OutcomeStatus string

const (
	OutcomeNotFound     OutcomeStatus = "not_found"
	OutcomeLookupFailed OutcomeStatus = "lookup_failed"
	OutcomeUpToDate     OutcomeStatus = "up_to_date"
	OutcomeResubscribed OutcomeStatus = "resubscribed"
	OutcomeUpdateFailed OutcomeStatus = "update_failed"
	OutcomeDryRun       OutcomeStatus = "dry_run"
)

type Outcome struct {
	Email        string        `json:"email"`
	Status       OutcomeStatus `json:"status"`
	SubscriberID int           `json:"subscriber_id,omitempty"`
	Subscribed   int           `json:"subscribed"`
	Total        int           `json:"total"`
	ListIDs      []int         `json:"list_ids,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Report collects the outcome of every email checked in a run.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Summary is a one-line overview for logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("checked %d, resubscribed %d, dry run %d, up to date %d, not found %d, failed %d",
		len(r.Outcomes),
		r.Count(OutcomeResubscribed),
		r.Count(OutcomeDryRun),
		r.Count(OutcomeUpToDate),
		r.Count(OutcomeNotFound),
		r.Count(OutcomeLookupFailed)+r.Count(OutcomeUpdateFailed))
}
