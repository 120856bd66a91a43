package fantasy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalCollection_Array(t *testing.T) {
	data := []byte(`[{"game_key":"423","name":"Football"},{"game_key":"431","name":"Baseball"}]`)

	collection, err := UnmarshalCollection[Game](data)
	require.NoError(t, err)

	assert.Equal(t, 2, collection.Count)
	require.Len(t, collection.Items, 2)
	assert.Equal(t, "423", collection.Items[0].GameKey)
	assert.Equal(t, "431", collection.Items[1].GameKey)
}

func TestUnmarshalCollection_Indexed(t *testing.T) {
	data := []byte(`{
		"0": {"game_key": "423", "name": "Football"},
		"1": {"game_key": "431", "name": "Baseball"},
		"count": 2
	}`)

	collection, err := UnmarshalCollection[Game](data)
	require.NoError(t, err)

	assert.Equal(t, 2, collection.Count)
	require.Len(t, collection.Items, 2)
	assert.Equal(t, "Football", collection.Items[0].Name)
	assert.Equal(t, "Baseball", collection.Items[1].Name)
}

func TestUnmarshalCollection_IndexedWithoutCount(t *testing.T) {
	data := []byte(`{"0": {"game_key": "423"}, "1": {"game_key": "431"}}`)

	collection, err := UnmarshalCollection[Game](data)
	require.NoError(t, err)

	assert.Equal(t, 2, collection.Count)
	assert.Equal(t, "431", collection.Items[1].GameKey)
}

func TestUnmarshalCollection_CountLargerThanEntries(t *testing.T) {
	data := []byte(`{"0": {"game_key": "423"}, "count": 5}`)

	collection, err := UnmarshalCollection[Game](data)
	require.NoError(t, err)

	// Count reflects the items actually present, not the advertised total.
	assert.Equal(t, 1, collection.Count)
	require.Len(t, collection.Items, 1)
}

func TestUnmarshalCollection_Empty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: []byte("")},
		{name: "null", data: []byte("null")},
		{name: "empty array", data: []byte("[]")},
		{name: "count only", data: []byte(`{"count": 0}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection, err := UnmarshalCollection[Game](tt.data)
			require.NoError(t, err)
			assert.Zero(t, collection.Count)
			assert.Empty(t, collection.Items)
		})
	}
}

func TestUnmarshalCollection_Malformed(t *testing.T) {
	_, err := UnmarshalCollection[Game]([]byte(`{"0": "not an object"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection item 0")
}
