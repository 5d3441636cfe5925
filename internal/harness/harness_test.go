package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PassingScenario(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "inline-pass",
		Description: "append then wedge",
		Steps: []Step{
			{Append: "a"},
			{Append: "b"},
			{Place: "c", Before: "b"},
		},
		Assertions: []Assertion{
			{Type: AssertOrder, Items: []string{"a", "c", "b"}},
			{Type: AssertKey, Item: "c", Key: "3/2"},
			{Type: AssertDistinctKeys},
			{Type: AssertReducedKeys},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 3)
	assert.Equal(t, "1/1", result.Trace[0].Key)
	assert.Equal(t, "2/1", result.Trace[1].Key)
	assert.Equal(t, "3/2", result.Trace[2].Key)
	assert.Equal(t, []string{"a=1/1", "c=3/2", "b=2/1"}, result.FinalOrder)
}

func TestRun_FailingAssertionDoesNotAbort(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "inline-fail",
		Description: "wrong expected order",
		Steps: []Step{
			{Append: "a"},
			{Append: "b"},
		},
		Assertions: []Assertion{
			{Type: AssertOrder, Items: []string{"b", "a"}},
			{Type: AssertDistinctKeys},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: order")
}

func TestRun_PrependAndRenormalizeSteps(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "inline-renorm",
		Description: "explicit renormalization lands on the dense baseline",
		Steps: []Step{
			{Append: "a"},
			{Place: "b", Prepend: true},
			{Renormalize: true},
		},
		Assertions: []Assertion{
			{Type: AssertOrder, Items: []string{"b", "a"}},
			// b already held 1/2; the baseline slides past the occupied slot.
			{Type: AssertKey, Item: "b", Key: "3/2"},
			{Type: AssertKey, Item: "a", Key: "5/2"},
			{Type: AssertRenormalizeCount, Count: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectedErrorIsTraced(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "inline-expect-error",
		Description: "placing against a missing anchor fails as declared",
		Steps: []Step{
			{Append: "a"},
			{Place: "b", After: "ghost", ExpectError: "NOT_FOUND"},
		},
		Assertions: []Assertion{
			{Type: AssertOrder, Items: []string{"a"}},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 2)
	assert.Contains(t, result.Trace[1].Err, "NOT_FOUND")
}

func TestRun_WrongExpectedErrorFails(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "inline-wrong-expect",
		Description: "a succeeding step with expect_error fails the scenario",
		Steps: []Step{
			{Append: "a", ExpectError: "NOT_FOUND"},
		},
		Assertions: []Assertion{
			{Type: AssertDistinctKeys},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "but the step succeeded")
}

func TestRun_UnexpectedErrorAborts(t *testing.T) {
	_, err := Run(&Scenario{
		Name:        "inline-abort",
		Description: "an undeclared failure aborts the run",
		Steps: []Step{
			{Place: "b", After: "ghost"},
		},
		Assertions: []Assertion{
			{Type: AssertDistinctKeys},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0")
}
