package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Product_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedID     int64
		expectedFields map[string]any
		expectError    bool
	}{
		{
			name:           "object with id and free-form fields",
			input:          `{"id": 5, "name": "Lamp", "price": 19.99, "color": "red"}`,
			expectedID:     5,
			expectedFields: map[string]any{"name": "Lamp", "price": 19.99, "color": "red"},
		},
		{
			name:           "object without id",
			input:          `{"name": "Lamp"}`,
			expectedID:     0,
			expectedFields: map[string]any{"name": "Lamp"},
		},
		{
			name:        "non-object payload",
			input:       `[1, 2, 3]`,
			expectError: true,
		},
		{
			name:        "fractional id",
			input:       `{"id": 1.5}`,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p Product
			err := json.Unmarshal([]byte(tc.input), &p)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, p.ID)
			assert.Equal(t, tc.expectedFields, p.Fields)
		})
	}
}

func Test_Product_MarshalJSON(t *testing.T) {
	// given
	p := Product{ID: 7, Fields: map[string]any{"name": "Lamp", "brand": "Lux"}}

	// when
	data, err := json.Marshal(p)

	// then
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(7), doc["id"])
	assert.Equal(t, "Lamp", doc["name"])
	assert.Equal(t, "Lux", doc["brand"])
}

func Test_Product_Merge(t *testing.T) {
	// given
	existing := Product{ID: 3, Fields: map[string]any{
		"name":        "Old name",
		"price":       10.0,
		"description": "kept as-is",
	}}

	// when
	merged := existing.Merge(map[string]any{
		"name":  "New name",
		"id":    int64(99),
		"brand": "added",
	})

	// then: present fields overwritten, absent fields preserved, id immutable
	assert.Equal(t, int64(3), merged.ID)
	assert.Equal(t, "New name", merged.Fields["name"])
	assert.Equal(t, 10.0, merged.Fields["price"])
	assert.Equal(t, "kept as-is", merged.Fields["description"])
	assert.Equal(t, "added", merged.Fields["brand"])
	assert.NotContains(t, merged.Fields, "id")

	// the source record is untouched
	assert.Equal(t, "Old name", existing.Fields["name"])
	assert.NotContains(t, existing.Fields, "brand")
}
