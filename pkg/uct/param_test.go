package uct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}

func TestParamsSetGetRoundTrip(t *testing.T) {
	cases := []struct{ key, value string }{
		{"max_games", "5000"},
		{"max_nodes", "4096"},
		{"num_threads", "8"},
		{"expand_threshold", "3"},
		{"bias_constant", "0.5"},
		{"first_play_urgency", "10"},
		{"rave", "false"},
		{"rave_weight_final", "5000"},
		{"lock_free", "false"},
		{"virtual_loss", "true"},
		{"reuse_subtree", "true"},
		{"ponder", "true"},
		{"resign_threshold", "0.1"},
		{"early_pass", "true"},
		{"move_select", "estimate"},
		{"prior_knowledge", "even"},
		{"search_mode", "one_ply"},
		{"live_gfx", "counts"},
		{"live_gfx_interval", "1000"},
		{"mercy_rule", "false"},
		{"score_modification", "0.01"},
	}
	p := DefaultParams()
	for _, c := range cases {
		require.NoError(t, p.Set(c.key, c.value), c.key)
		got, err := p.Get(c.key)
		require.NoError(t, err, c.key)
		assert.Equal(t, c.value, got, c.key)
	}
}

func TestParamsSetUnknownKey(t *testing.T) {
	p := DefaultParams()
	assert.Error(t, p.Set("no_such_knob", "1"))
	_, err := p.Get("no_such_knob")
	assert.Error(t, err)
}

func TestParamsSetRejectsAndKeepsOld(t *testing.T) {
	p := DefaultParams()

	// Unparseable value.
	assert.Error(t, p.Set("max_games", "lots"))
	got, _ := p.Get("max_games")
	assert.Equal(t, "999999999", got)

	// Parseable but inconsistent value.
	assert.Error(t, p.Set("num_threads", "0"))
	assert.Equal(t, 1, p.NumThreads)

	assert.Error(t, p.Set("resign_threshold", "1.5"))
	assert.InDelta(t, 0.05, p.ResignThreshold, 1e-9)

	assert.Error(t, p.Set("rave_weight_initial", "0"))
	assert.NoError(t, p.Validate())
}

func TestParamsEnumRejectsUnknownChoice(t *testing.T) {
	p := DefaultParams()
	assert.Error(t, p.Set("move_select", "greedy"))
	got, _ := p.Get("move_select")
	assert.Equal(t, "count", got)
}
