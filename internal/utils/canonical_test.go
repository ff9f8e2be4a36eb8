package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Zeta  string         `json:"zeta"`
	Alpha []int          `json:"alpha"`
	Inner map[string]any `json:"inner"`
	Empty *string        `json:"empty"`
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	data, err := CanonicalJSON(sample{
		Zeta:  "<b>café</b>",
		Alpha: []int{3, 1},
		Inner: map[string]any{"y": 1.5, "x": true},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":[3,1],"empty":null,"inner":{"x":true,"y":1.5},"zeta":"<b>café</b>"}`, string(data))
}

func TestContentHashDeterministic(t *testing.T) {
	a := map[string]any{"b": 1, "a": []string{"x"}}
	b := map[string]any{"a": []string{"x"}, "b": 1}

	ha, err := ContentHash(a)
	require.NoError(t, err)
	hb, err := ContentHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", ha)

	hc, err := ContentHash(map[string]any{"a": []string{"y"}, "b": 1})
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestContentHashKnownValue(t *testing.T) {
	// sha256 of `{}`
	h, err := ContentHash(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a", h)
}
