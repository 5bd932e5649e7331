package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want StringList
	}{
		{name: "valid array", raw: `["Quiz","Debate"]`, want: StringList{"Quiz", "Debate"}},
		{name: "empty array", raw: `[]`, want: StringList{}},
		{name: "empty input", raw: "", want: StringList{}},
		{name: "json null", raw: "null", want: StringList{}},
		{name: "malformed json", raw: `["Quiz"`, want: StringList{}},
		{name: "not an array", raw: `"Quiz"`, want: StringList{}},
		{name: "array of numbers", raw: `[1,2]`, want: StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStringList(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got)
		})
	}
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["Painting"]`)))
	assert.Equal(t, StringList{"Painting"}, l)

	require.NoError(t, l.Scan("garbage"))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	assert.Error(t, l.Scan(42))
}

func TestStringListValue(t *testing.T) {
	var nilList StringList
	v, err := nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	v, err = StringList{"Quiz"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["Quiz"]`, string(v.([]byte)))
}

func TestStringListMarshalJSON(t *testing.T) {
	// A nil list must serialize as [] rather than null
	var nilList StringList
	b, err := json.Marshal(nilList)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = json.Marshal(StringList{"Debate", "Quiz"})
	require.NoError(t, err)
	assert.Equal(t, `["Debate","Quiz"]`, string(b))
}
