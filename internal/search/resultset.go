package search

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/meridianbank/console/internal/models"
)

// Group is one account's transactions inside a grouped response.
type Group struct {
	Key     string
	Records []models.TransactionRecord
}

// ResultSet is the normalized form of the two response shapes the backend
// may return for a find call: a flat ordered list, or a mapping from account
// identifier to lists. Grouped keys keep the backend's insertion order and
// are never re-sorted.
type ResultSet struct {
	Flat   []models.TransactionRecord
	Groups []Group

	grouped bool
}

func (rs *ResultSet) Grouped() bool {
	return rs.grouped
}

// Len is the total record count across either shape.
func (rs *ResultSet) Len() int {
	if !rs.grouped {
		return len(rs.Flat)
	}
	n := 0
	for _, g := range rs.Groups {
		n += len(g.Records)
	}
	return n
}

// FlatCount returns the flat page length, or -1 for grouped responses,
// matching what the pager needs to decide HasNext.
func (rs *ResultSet) FlatCount() int {
	if rs.grouped {
		return -1
	}
	return len(rs.Flat)
}

func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*rs = ResultSet{Flat: []models.TransactionRecord{}}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var flat []models.TransactionRecord
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return err
		}
		*rs = ResultSet{Flat: flat}
		return nil
	case '{':
		groups, err := decodeGroups(trimmed)
		if err != nil {
			return err
		}
		*rs = ResultSet{Groups: groups, grouped: true}
		return nil
	}
	return fmt.Errorf("transactions: expected array or object, got %q", trimmed[0])
}

// decodeGroups walks the object token by token so the key order observed on
// the wire is preserved; json.Unmarshal into a map would lose it.
func decodeGroups(data []byte) ([]Group, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var groups []Group
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("transactions: unexpected key token %v", tok)
		}

		var records []models.TransactionRecord
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("transactions[%s]: %w", key, err)
		}
		groups = append(groups, Group{Key: key, Records: records})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return groups, nil
}
