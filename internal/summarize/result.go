package summarize

import "fmt"

// RefinementFailed is the display form of a failed refine call.
const RefinementFailed = "[Refinement failed]"

// refineIndex marks the Result produced by the reduce phase.
const refineIndex = -1

// Result is the outcome of one model call: either text or the reason it
// failed. Index is the zero-based chunk position, or refineIndex for the
// refined summary.
type Result struct {
	Index int
	Text  string
	Err   error
}

// Ok builds a successful chunk result.
func Ok(index int, text string) Result {
	return Result{Index: index, Text: text}
}

// Fail builds a failed chunk result.
func Fail(index int, err error) Result {
	return Result{Index: index, Err: err}
}

// Failed reports whether the call behind r did not produce text.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Display renders r for people and for the refine prompt. Failures become a
// bracketed sentinel with a one-based chunk number.
func (r Result) Display() string {
	if r.Err == nil {
		return r.Text
	}
	if r.Index == refineIndex {
		return RefinementFailed
	}
	return fmt.Sprintf("[Error in chunk %d]", r.Index+1)
}

// Reason is the failure message, empty for successes.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Displays maps Display over results, keeping order.
func Displays(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Display()
	}
	return out
}

// CountFailed returns how many results failed.
func CountFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}
