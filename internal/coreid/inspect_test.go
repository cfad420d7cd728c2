package coreid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect_Valid(t *testing.T) {
	got := Inspect("cb7147879011ea207df5b35a24ca6f0859dcfb145999", DefaultOptions())
	assert.True(t, got.Recognized)
	assert.True(t, got.Valid)
	assert.Equal(t, "fixed", got.Form)
	assert.Equal(t, "valid", got.Outcome)
	assert.Equal(t, "mainnet", got.Network)
	assert.Equal(t, "corepass:cb7147879011ea207df5b35a24ca6f0859dcfb145999", got.URL)
	assert.Equal(t, "CB71…5999@coreid", got.Label)
	assert.Empty(t, got.Suggested)
}

func TestInspect_InvalidSuggestsDigits(t *testing.T) {
	got := Inspect("[cb7247879011ea207df5b35a24ca6f0859dcfb145999@coreid]", DefaultOptions())
	assert.True(t, got.Recognized)
	assert.False(t, got.Valid)
	assert.Equal(t, "invalid", got.Outcome)
	assert.Empty(t, got.URL)
	assert.Equal(t, "~~CB72…5999@coreid~~", got.Label)
	assert.Equal(t, "CB7147879011EA207DF5B35A24CA6F0859DCFB145999", got.Suggested)
}

func TestInspect_SkipOverrideStillSuggests(t *testing.T) {
	got := Inspect("!ce0047879011ea207df5b35a24ca6f0859dcfb145999", DefaultOptions())
	assert.True(t, got.Valid)
	assert.Equal(t, "enterprise", got.Network)
	assert.Equal(t, "CE6247879011EA207DF5B35A24CA6F0859DCFB145999", got.Suggested)
}

func TestInspect_Domain(t *testing.T) {
	got := Inspect("sub.domain.cc@coreid", DefaultOptions())
	assert.True(t, got.Valid)
	assert.Equal(t, "domain", got.Form)
	assert.Equal(t, "bare", got.Outcome)
	assert.Equal(t, "corepass:sub.domain.cc", got.URL)
	assert.Empty(t, got.Network)
}

func TestInspect_Unrecognized(t *testing.T) {
	got := Inspect("not an id", DefaultOptions())
	assert.False(t, got.Recognized)
	assert.False(t, got.Valid)
	assert.Equal(t, "not an id", got.Input)
}

func TestInspect_SuggestionFollowsValidator(t *testing.T) {
	opts := DefaultOptions()
	opts.Validator = func(string) bool { return true }
	got := Inspect("cb7247879011ea207df5b35a24ca6f0859dcfb145999", opts)
	assert.True(t, got.Valid)
	assert.Empty(t, got.Suggested)

	opts.Validator = func(string) bool { return false }
	got = Inspect("cb7147879011ea207df5b35a24ca6f0859dcfb145999", opts)
	assert.False(t, got.Valid)
	assert.Empty(t, got.Suggested, "recomputed digits match the written ones")

	got = Inspect("cb7247879011ea207df5b35a24ca6f0859dcfb145999", opts)
	assert.Equal(t, "CB7147879011EA207DF5B35A24CA6F0859DCFB145999", got.Suggested)
}
