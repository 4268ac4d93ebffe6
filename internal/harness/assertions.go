package harness

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// AssertionError describes every expectation a result failed.
type AssertionError struct {
	Scenario string
	Failures []string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("scenario %q: %d assertion(s) failed:\n  %s",
		e.Scenario, len(e.Failures), strings.Join(e.Failures, "\n  "))
}

// CheckExpectations compares result against scenario.Expect.
// Returns nil when all checks pass, or an *AssertionError listing
// every failure.
func CheckExpectations(scenario *Scenario, result *Result) error {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}
	want := scenario.Expect

	if got := result.ErrorKind(); got != want.Error {
		fail("error: expected %q, got %q", want.Error, got)
	}

	if result.Report != nil {
		checkCount(fail, "remapped", want.Remapped, result.Report.Remapped)
		checkCount(fail, "malformed", want.Malformed, result.Report.Malformed)
		checkCount(fail, "blank", want.Blank, result.Report.Blank)
	}

	if result.Document == nil {
		if want.Events != nil || len(want.PIDs) > 0 {
			fail("no output document to check events against")
		}
		return assertionResult(scenario.Name, failures)
	}

	events := result.Document.Events
	checkCount(fail, "events", want.Events, len(events))

	indexes := make([]int, 0, len(want.PIDs))
	for i := range want.PIDs {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)

	for _, i := range indexes {
		if i < 0 || i >= len(events) {
			fail("pids[%d]: index out of range (%d events)", i, len(events))
			continue
		}
		expected := want.PIDs[i]
		raw, ok := events[i].Get("pid")
		switch {
		case expected == nil && ok:
			fail("pids[%d]: expected no pid, got %s", i, raw)
		case expected == nil:
		case !ok:
			fail("pids[%d]: expected %d, event has no pid", i, *expected)
		default:
			var got uint64
			if err := json.Unmarshal(raw, &got); err != nil || got != *expected {
				fail("pids[%d]: expected %d, got %s", i, *expected, raw)
			}
		}
	}

	return assertionResult(scenario.Name, failures)
}

func checkCount(fail func(string, ...any), name string, want *int, got int) {
	if want != nil && *want != got {
		fail("%s: expected %d, got %d", name, *want, got)
	}
}

func assertionResult(name string, failures []string) error {
	if len(failures) == 0 {
		return nil
	}
	return &AssertionError{Scenario: name, Failures: failures}
}
