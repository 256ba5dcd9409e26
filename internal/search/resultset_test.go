package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSet_FlatShape(t *testing.T) {
	payload := `[
		{"transaction_id": 1, "type": "DEPOSIT", "amount": "100.50", "status": "SUCCESS"},
		{"transaction_id": 2, "type": "WITHDRAWAL", "amount": "25", "status": "SUCCESS"}
	]`

	var rs ResultSet
	err := json.Unmarshal([]byte(payload), &rs)
	assert.NoError(t, err)
	assert.False(t, rs.Grouped())
	assert.Len(t, rs.Flat, 2)
	assert.Equal(t, 2, rs.FlatCount())
	assert.EqualValues(t, 1, rs.Flat[0].TransactionID)
	assert.Equal(t, "100.5", rs.Flat[0].Amount.String())
}

func TestResultSet_GroupedShapeKeepsOrder(t *testing.T) {
	// Keys deliberately not in lexicographic order; wire order must survive.
	payload := `{
		"900113": [{"transaction_id": 9}],
		"900111": [{"transaction_id": 1}, {"transaction_id": 2}],
		"900112": []
	}`

	var rs ResultSet
	err := json.Unmarshal([]byte(payload), &rs)
	assert.NoError(t, err)
	assert.True(t, rs.Grouped())
	assert.Equal(t, -1, rs.FlatCount())
	assert.Equal(t, 3, rs.Len())

	keys := []string{}
	for _, g := range rs.Groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"900113", "900111", "900112"}, keys)
	assert.Len(t, rs.Groups[1].Records, 2)
}

func TestResultSet_NullAndEmpty(t *testing.T) {
	var rs ResultSet
	assert.NoError(t, json.Unmarshal([]byte(`null`), &rs))
	assert.False(t, rs.Grouped())
	assert.Equal(t, 0, rs.Len())

	assert.NoError(t, json.Unmarshal([]byte(`[]`), &rs))
	assert.Equal(t, 0, rs.FlatCount())
}

func TestResultSet_RejectsScalar(t *testing.T) {
	var rs ResultSet
	assert.Error(t, json.Unmarshal([]byte(`42`), &rs))
}
