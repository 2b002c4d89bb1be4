package engine

import (
	"github.com/maruel/ksid"
	"github.com/pkg/errors"
)

// Create stores data as a new record, creating the table on first
// write. When data carries an id it is kept (seeding, imports),
// otherwise a k-sortable id is generated. The record and its index
// entries become visible as one unit: both are written inside the
// table's writer critical section.
func (e *Engine) Create(table string, data Record) (Record, error) {
	t := e.Table(table)

	row := CloneRecord(data)
	id := GetPrimaryKey(row)
	if id == "" {
		id = ksid.NewID().String()
		SetPrimaryKey(row, id)
	}

	t.locker.Lock()
	defer t.locker.Unlock()

	if !t.Rows.Insert(id, row, t.SeqTracker.Add(1)) {
		return nil, errors.Wrapf(ErrDuplicateRecord, "%s in table %s", id, table)
	}
	t.addRowToIndexes(row)
	return row, nil
}

// Read returns the record stored under id. It takes no table lock and
// treats an unknown table the same as a missing record.
func (e *Engine) Read(table, id string) (Record, error) {
	t, ok := e.lookupTable(table)
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s in table %s", id, table)
	}
	row, ok := t.Rows.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s in table %s", id, table)
	}
	return row, nil
}

// Update merges patch into the stored record. The stored map is never
// mutated in place: a replacement is built and swapped in under the
// writer lock, so concurrent readers see the old or the new record
// whole, never a half-written one. The id field cannot be patched.
func (e *Engine) Update(table, id string, patch Record) (Record, error) {
	t, ok := e.lookupTable(table)
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s in table %s", id, table)
	}

	t.locker.Lock()
	defer t.locker.Unlock()

	old, ok := t.Rows.GetRow(id)
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s in table %s", id, table)
	}

	new_row := CloneRecord(old.Data)
	for field, value := range patch {
		if field == SYS_PRIMARY_KEY {
			continue
		}
		new_row.Set(field, value)
	}

	t.updateRowIndexes(old.Data, new_row)
	t.Rows.Replace(id, new_row, old.Seq)
	return new_row, nil
}

// Delete removes the record and every index entry it occupied.
func (e *Engine) Delete(table, id string) error {
	t, ok := e.lookupTable(table)
	if !ok {
		return errors.Wrapf(ErrRecordNotFound, "%s in table %s", id, table)
	}

	t.locker.Lock()
	defer t.locker.Unlock()

	row, ok := t.Rows.Get(id)
	if !ok {
		return errors.Wrapf(ErrRecordNotFound, "%s in table %s", id, table)
	}
	t.removeRowFromIndexes(row)
	t.Rows.Delete(id)
	return nil
}

// List returns a snapshot of the table in insertion order. Unknown
// tables list as empty.
func (e *Engine) List(table string) []Record {
	t, ok := e.lookupTable(table)
	if !ok {
		return []Record{}
	}
	return t.Rows.Snapshot()
}

// FindBy returns every record whose field currently equals value,
// resolved through the field's index. Fields outside the table's
// indexed set are rejected rather than scanned.
func (e *Engine) FindBy(table, field string, value any) ([]Record, error) {
	t, ok := e.lookupTable(table)
	if !ok {
		return nil, errors.Wrapf(ErrTableNotFound, "%s", table)
	}
	if !t.Indexed(field) {
		return nil, errors.Wrapf(ErrUnindexedField, "%s.%s", table, field)
	}

	found_rows := []Record{}
	for _, id := range t.IndexMap(field).Lookup(value) {
		row, ok := t.Rows.Get(id)
		if !ok {
			// row deleted between the index snapshot and hydration
			continue
		}
		found_rows = append(found_rows, row)
	}
	return found_rows, nil
}
