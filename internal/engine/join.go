package engine

import "github.com/pkg/errors"

// Join pairs every record in table1 with the records in table2 whose
// key field holds the same value, resolved through table2's index on
// key. Cost is O(|table1| + matches).
//
// Results follow table1's iteration order; matches for one left record
// follow ascending table2 id order. A left record without the key
// field contributes no pairs. Join is read-only and holds neither
// table's writer lock.
func (e *Engine) Join(table1, table2, key string) ([]Record, error) {
	left, ok := e.lookupTable(table1)
	if !ok {
		return nil, errors.Wrapf(ErrTableNotFound, "%s", table1)
	}
	right, ok := e.lookupTable(table2)
	if !ok {
		return nil, errors.Wrapf(ErrTableNotFound, "%s", table2)
	}
	if !right.Indexed(key) {
		return nil, errors.Wrapf(ErrUnindexedField, "%s.%s", table2, key)
	}

	joined := []Record{}
	for _, left_row := range left.Rows.Snapshot() {
		value, ok := indexableValue(left_row, key)
		if !ok {
			continue
		}
		for _, id := range right.IndexMap(key).Lookup(value) {
			right_row, ok := right.Rows.Get(id)
			if !ok {
				continue
			}
			joined = append(joined, mergeRows(table1, left_row, table2, right_row))
		}
	}
	return joined, nil
}

// mergeRows flattens a matched pair into one record. On a shared field
// name the right record wins. The pair's primary keys are emitted as
// <table>_id fields so neither id is lost to the collision rule.
func mergeRows(left_name string, left Record, right_name string, right Record) Record {
	merged := make(Record, len(left)+len(right))
	for field, value := range left {
		if field == SYS_PRIMARY_KEY {
			continue
		}
		merged.Set(field, value)
	}
	for field, value := range right {
		if field == SYS_PRIMARY_KEY {
			continue
		}
		merged.Set(field, value)
	}
	merged.Set(left_name+"_id", GetPrimaryKey(left))
	merged.Set(right_name+"_id", GetPrimaryKey(right))
	return merged
}
