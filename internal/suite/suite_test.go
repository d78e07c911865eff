package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/markers"
)

var (
	_ = Register("TestInventorySmokeExample", "example smoke flow",
		markers.Smoke, markers.UI, markers.Critical)
	_ = Register("TestInventoryAPIExample", "example api flow",
		markers.API, markers.Regression)
)

func TestLookupFindsRegisteredEntry(t *testing.T) {
	e, ok := Lookup("TestInventorySmokeExample")
	require.True(t, ok)
	assert.Equal(t, "example smoke flow", e.Description)
	assert.True(t, e.Markers.Has("smoke"))

	_, ok = Lookup("TestNeverRegistered")
	assert.False(t, ok)
}

func TestAllIsSortedByName(t *testing.T) {
	all := All()
	require.GreaterOrEqual(t, len(all), 2)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestFilterSelectsByExpression(t *testing.T) {
	got, err := Filter("smoke and not api")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, e := range got {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "TestInventorySmokeExample")
	assert.NotContains(t, names, "TestInventoryAPIExample")

	_, err = Filter("smoke and")
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicatesAndUnknownMarkers(t *testing.T) {
	assert.Panics(t, func() {
		Register("TestInventorySmokeExample", "dup", markers.Smoke)
	})
	assert.Panics(t, func() {
		Register("TestInventoryBadMarker", "bad", markers.Marker("made_up"))
	})
}

func TestSelectionDecision(t *testing.T) {
	cases := []struct {
		name     string
		test     string
		expr     string
		wantSkip bool
	}{
		{"matching expression runs", "TestInventorySmokeExample", "smoke", false},
		{"non-matching expression skips", "TestInventorySmokeExample", "performance", true},
		{"boolean expression", "TestInventoryAPIExample", "api and not ui", false},
		{"negation skips", "TestInventoryAPIExample", "not api", true},
		{"subtest inherits parent markers", "TestInventorySmokeExample/case_1", "smoke", false},
		{"unregistered test always runs", "TestNeverRegistered", "performance", false},
		{"empty filter runs everything", "TestInventorySmokeExample", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skip, reason, err := shouldSkip(tc.test, tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSkip, skip)
			if tc.wantSkip {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestSelectionRejectsBadExpression(t *testing.T) {
	_, _, err := shouldSkip("TestInventorySmokeExample", "smoke and")
	assert.Error(t, err)
}
