package engine

import "github.com/tablodb/tablo/pkg"

// Maps record field name to its stored value
type Record = pkg.Map[string, any]

const SYS_PRIMARY_KEY = "id"

func GetPrimaryKey(r Record) string {
	id, _ := r.Get(SYS_PRIMARY_KEY).(string)
	return id
}

func SetPrimaryKey(r Record, id string) {
	r.Set(SYS_PRIMARY_KEY, id)
}

func CloneRecord(r Record) Record {
	clone := make(Record, len(r))
	for field, value := range r {
		clone.Set(field, value)
	}
	return clone
}

// indexableValue reports the value a record contributes to an index on
// field. Absent and nil values are never indexed.
func indexableValue(row Record, field string) (any, bool) {
	value, ok := row[field]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}
