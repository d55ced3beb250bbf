package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(4), 4, true},
		{true, 1, true},
		{"5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestMapToFloat64(t *testing.T) {
	got := MapToFloat64(map[string]any{"views": 10.0, "title": "x", "pinned": true})
	assert.Equal(t, map[string]float64{"views": 10, "pinned": 1}, got)
	assert.Nil(t, MapToFloat64(nil))
}

func TestSliceAnyToString(t *testing.T) {
	assert.Equal(t, []string{"a", "42"}, SliceAnyToString([]any{"a", 42.0, map[string]any{}}))
	assert.Nil(t, SliceAnyToString("a"))
	assert.Nil(t, SliceAnyToString(nil))
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"name": "topn", "n": 5, "ratio": 2.0, "flag": true}

	assert.Equal(t, "topn", ConfigGet(cfg, "name", ""))
	assert.Equal(t, "dflt", ConfigGet(cfg, "missing", "dflt"))
	assert.Equal(t, "dflt", ConfigGet(cfg, "n", "dflt"), "类型不符时返回默认值")
	assert.True(t, ConfigGet(cfg, "flag", false))

	assert.Equal(t, int64(5), ConfigGetInt64(cfg, "n", 0))
	assert.Equal(t, int64(2), ConfigGetInt64(cfg, "ratio", 0))
	assert.Equal(t, int64(7), ConfigGetInt64(cfg, "name", 7))
	assert.Equal(t, int64(7), ConfigGetInt64(nil, "n", 7))
}
