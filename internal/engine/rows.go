package engine

import (
	"sync"

	sorted "github.com/tobshub/go-sortedmap"
)

// TableRow pairs a record with the table insertion sequence that
// orders it. Updates keep the original sequence, so a record never
// moves in iteration order.
type TableRow struct {
	Seq  int64
	Data Record
}

// Maps record id to its stored row, kept sorted by insertion sequence.
type TableRows struct {
	locker sync.RWMutex
	Map    *sorted.SortedMap[string, *TableRow]
}

func tableRowsComparisonFunc(a, b *TableRow) bool {
	return a.Seq < b.Seq
}

func NewTableRows() *TableRows {
	return &TableRows{Map: sorted.New[string, *TableRow](0, tableRowsComparisonFunc)}
}

func (r *TableRows) Get(id string) (Record, bool) {
	tr, ok := r.GetRow(id)
	if !ok {
		return nil, false
	}
	return tr.Data, true
}

func (r *TableRows) GetRow(id string) (*TableRow, bool) {
	r.locker.RLock()
	defer r.locker.RUnlock()
	return r.Map.Get(id)
}

func (r *TableRows) Insert(id string, row Record, seq int64) bool {
	r.locker.Lock()
	defer r.locker.Unlock()
	return r.Map.Insert(id, &TableRow{Seq: seq, Data: row})
}

func (r *TableRows) Replace(id string, row Record, seq int64) {
	r.locker.Lock()
	defer r.locker.Unlock()
	r.Map.Replace(id, &TableRow{Seq: seq, Data: row})
}

func (r *TableRows) Delete(id string) bool {
	r.locker.Lock()
	defer r.locker.Unlock()
	if !r.Map.Has(id) {
		return false
	}
	r.Map.Delete(id)
	return true
}

func (r *TableRows) Has(id string) bool {
	r.locker.RLock()
	defer r.locker.RUnlock()
	return r.Map.Has(id)
}

func (r *TableRows) Len() int {
	r.locker.RLock()
	defer r.locker.RUnlock()
	return r.Map.Len()
}

// Snapshot returns the current records in insertion order. The
// returned slice is detached from the table, so iterating it is
// restartable and safe against concurrent writers.
func (r *TableRows) Snapshot() []Record {
	r.locker.RLock()
	defer r.locker.RUnlock()
	rows := make([]Record, 0, r.Map.Len())
	iter_ch, err := r.Map.IterCh()
	if err != nil {
		// IterCh only errors on an empty map
		return rows
	}
	defer iter_ch.Close()
	for rec := range iter_ch.Records() {
		rows = append(rows, rec.Val.Data)
	}
	return rows
}
