package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// newGoldie creates a goldie instance configured for contextize output.
// Golden files live in testdata/golden/ with a .golden suffix.
func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertGolden compares data against testdata/golden/{name}.golden.
// Use -update to regenerate.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	newGoldie(t).Assert(t, name, data)
}

// RunWithGolden runs a scenario, checks its expectations, and compares
// the rewritten capture against its golden file. Scenarios expected to
// fail have no golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %q: %v", scenario.Name, err)
	}

	if err := CheckExpectations(scenario, result); err != nil {
		t.Error(err)
	}

	if scenario.Expect.Error == "" && result.Output != nil {
		AssertGolden(t, scenario.Name, result.Output)
	}

	return result
}
