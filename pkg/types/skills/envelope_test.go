package skills

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputConstructors(t *testing.T) {
	ok := OK(map[string]any{"echo": "hi"})
	assert.True(t, ok.Success)
	assert.Empty(t, ok.Error)
	echo, present := ok.Get("echo")
	assert.True(t, present)
	assert.Equal(t, "hi", echo)

	failed := Fail("upstream returned %d", 429)
	assert.False(t, failed.Success)
	assert.Equal(t, "upstream returned 429", failed.Error)

	fromErr := FailErr(assert.AnError)
	assert.False(t, fromErr.Success)
	assert.NotEmpty(t, fromErr.Error)
}

func TestOutputNormalize(t *testing.T) {
	stray := Output{Success: true, Error: "leftover", Fields: map[string]any{"n": 1}}
	normalized := stray.Normalize()
	assert.True(t, normalized.Success)
	assert.Empty(t, normalized.Error)
	assert.Equal(t, 1, normalized.Fields["n"])

	silent := Output{Success: false, Fields: map[string]any{"n": 1}}
	normalized = silent.Normalize()
	assert.False(t, normalized.Success)
	assert.NotEmpty(t, normalized.Error)
	assert.Nil(t, normalized.Fields)
}

func TestOutputMarshalFlattensResultFields(t *testing.T) {
	data, err := json.Marshal(OK(map[string]any{"echo": "hi"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"echo":"hi"}`, string(data))

	data, err = json.Marshal(Fail("timeout"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"timeout"}`, string(data))
}

func TestOutputMarshalSkipsReservedResultFields(t *testing.T) {
	out := OK(map[string]any{"success": false, "error": "fake", "echo": "hi"})

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"echo":"hi"}`, string(data))
}

func TestOutputUnmarshal(t *testing.T) {
	var out Output
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"echo":"hi"}`), &out))
	assert.True(t, out.Success)
	assert.Empty(t, out.Error)
	assert.Equal(t, "hi", out.Fields["echo"])

	require.NoError(t, json.Unmarshal([]byte(`{"success":false,"error":"boom"}`), &out))
	assert.False(t, out.Success)
	assert.Equal(t, "boom", out.Error)
	assert.Nil(t, out.Fields)

	err := json.Unmarshal([]byte(`{"echo":"hi"}`), &out)
	assert.Error(t, err)
}

func TestInputAccessors(t *testing.T) {
	in := NewInput(map[string]any{
		"topic":       "ai",
		"max_results": 50,
		"ratio":       0.5,
		"dry_run":     true,
		"platforms":   []string{"youtube", "tiktok"},
	})

	assert.Equal(t, "ai", in.String("topic"))
	assert.Equal(t, 50, in.Int("max_results"))
	assert.Equal(t, 0.5, in.Float("ratio"))
	assert.True(t, in.Bool("dry_run"))
	assert.Equal(t, []string{"youtube", "tiktok"}, in.Strings("platforms"))

	// Absent fields yield zero values.
	assert.Empty(t, in.String("missing"))
	assert.Zero(t, in.Int("missing"))
	assert.False(t, in.Bool("missing"))
	assert.Nil(t, in.Strings("missing"))

	_, present := in.Get("missing")
	assert.False(t, present)
}

func TestInputDecode(t *testing.T) {
	type fetchTrendsInput struct {
		Platforms  []string `json:"platforms"`
		TimeRange  string   `json:"time_range"`
		MaxResults int      `json:"max_results"`
	}

	in := NewInput(map[string]any{
		"platforms":   []string{"youtube"},
		"time_range":  "24h",
		"max_results": 50,
	})

	var decoded fetchTrendsInput
	require.NoError(t, in.Decode(&decoded))
	assert.Equal(t, []string{"youtube"}, decoded.Platforms)
	assert.Equal(t, "24h", decoded.TimeRange)
	assert.Equal(t, 50, decoded.MaxResults)
}

func TestInputIsIsolatedFromCaller(t *testing.T) {
	raw := map[string]any{"topic": "ai"}
	in := NewInput(raw)

	raw["topic"] = "mutated"
	assert.Equal(t, "ai", in.String("topic"))

	fields := in.Fields()
	fields["topic"] = "also mutated"
	assert.Equal(t, "ai", in.String("topic"))
}
