package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"null", Null(), ""},
		{"int", Int(42), "42"},
		{"float", Float(3.5), "3.5"},
		{"float integral", Float(20), "20"},
		{"string", String("C30/37"), "C30/37"},
		{"bool", Bool(true), "true"},
		{"typed", Typed("IfcLabel", String("Level 1")), "Level 1"},
		{"ref", Ref(7), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.Text())
		})
	}
}

func TestValueAccessors(t *testing.T) {
	t.Run("AsFloat64 accepts ints", func(t *testing.T) {
		f, ok := Int(3).AsFloat64()
		require.True(t, ok)
		assert.Equal(t, 3.0, f)

		_, ok = String("3").AsFloat64()
		assert.False(t, ok)
	})

	t.Run("Refs", func(t *testing.T) {
		id, ok := Ref(5).AsRef()
		require.True(t, ok)
		assert.Equal(t, ID(5), id)

		ids, ok := Refs(1, 2).AsRefs()
		require.True(t, ok)
		assert.Equal(t, []ID{1, 2}, ids)

		_, ok = Ref(5).AsRefs()
		assert.False(t, ok)
	})

	t.Run("Typed only wraps scalars", func(t *testing.T) {
		assert.Equal(t, "IfcReal", Typed("IfcReal", Float(1)).Type)
		assert.Empty(t, Typed("IfcReal", Ref(1)).Type)
		assert.Empty(t, Typed("IfcReal", Null()).Type)
	})

	t.Run("Unwrapped", func(t *testing.T) {
		v := Typed("IfcLabel", String("x")).Unwrapped()
		assert.Equal(t, String("x"), v)
	})
}

func TestValueKey(t *testing.T) {
	assert.Equal(t, "s:a", String("a").Key())
	assert.Equal(t, "i:1", Int(1).Key())
	assert.NotEqual(t, Int(1).Key(), Float(1).Key())
	assert.Equal(t, "rs:1\x1f2", Refs(1, 2).Key())
}

func TestValueJSON(t *testing.T) {
	in := Typed("IfcLabel", String("Level 1"))

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Value
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestValueClone(t *testing.T) {
	orig := Refs(1, 2, 3)
	clone := orig.Clone()
	clone.Rs[0] = 99

	assert.Equal(t, ID(1), orig.Rs[0])
}
