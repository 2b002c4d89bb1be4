package engine

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Table owns one named collection of records and the index maps over
// its configured indexed fields. The set of indexed fields is fixed
// when the table is created, so IndexMaps is never resized and can be
// read without the engine lock.
type Table struct {
	Name    string
	Indexes []string

	// serializes writers on this table; readers never take it. The
	// instance lives as long as the process, even for emptied tables.
	locker sync.Mutex

	// hands out insertion sequence numbers for new rows
	SeqTracker atomic.Int64

	Rows      *TableRows
	IndexMaps TableIndexes
}

func NewTable(name string, indexes []string) *Table {
	t := &Table{
		Name:      name,
		Indexes:   indexes,
		Rows:      NewTableRows(),
		IndexMaps: TableIndexes{},
	}
	for _, field := range indexes {
		t.IndexMaps.Set(field, NewTableIndexMap())
	}
	return t
}

func (t *Table) Indexed(field string) bool {
	return slices.Contains(t.Indexes, field)
}

func (t *Table) IndexMap(field string) *TableIndexMap {
	return t.IndexMaps.Get(field)
}

func (t *Table) addRowToIndexes(row Record) {
	id := GetPrimaryKey(row)
	for _, field := range t.Indexes {
		value, ok := indexableValue(row, field)
		if !ok {
			continue
		}
		t.IndexMap(field).Add(value, id)
	}
}

func (t *Table) removeRowFromIndexes(row Record) {
	id := GetPrimaryKey(row)
	for _, field := range t.Indexes {
		value, ok := indexableValue(row, field)
		if !ok {
			continue
		}
		t.IndexMap(field).Remove(value, id)
	}
}

// updateRowIndexes moves the row id between index entries for exactly
// the indexed fields whose value changed.
func (t *Table) updateRowIndexes(old_row, new_row Record) {
	id := GetPrimaryKey(old_row)
	for _, field := range t.Indexes {
		old_value, had_old := indexableValue(old_row, field)
		new_value, has_new := indexableValue(new_row, field)
		if had_old && has_new && formatIndexValue(old_value) == formatIndexValue(new_value) {
			continue
		}
		if had_old {
			t.IndexMap(field).Remove(old_value, id)
		}
		if has_new {
			t.IndexMap(field).Add(new_value, id)
		}
	}
}
