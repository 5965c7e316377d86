package feed

import "fmt"

// FetchError indicates the feed endpoint was unreachable or answered with a
// non-success status.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch feed %s: unexpected status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError indicates the feed payload decoded but did not have the
// required shape (an "events" list).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid feed payload: %s", e.Reason)
}
