package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tablodb/tablo/pkg"
)

type (
	// index field name -> index value -> set of record ids
	TableIndexes = pkg.Map[string, *TableIndexMap]

	TableIndexMap struct {
		locker sync.RWMutex
		Map    map[string]map[string]struct{}
	}
)

// Index keys are formatted with %v so json's float64 and yaml's int
// render the same for whole numbers.
func formatIndexValue(v any) string {
	return fmt.Sprintf("%v", v)
}

func NewTableIndexMap() *TableIndexMap {
	return &TableIndexMap{Map: map[string]map[string]struct{}{}}
}

func (m *TableIndexMap) Has(key any) bool {
	m.locker.RLock()
	defer m.locker.RUnlock()
	ids, ok := m.Map[formatIndexValue(key)]
	return ok && len(ids) > 0
}

// Add inserts id into the set for key. Adding an id twice is a no-op.
func (m *TableIndexMap) Add(key any, id string) {
	m.locker.Lock()
	defer m.locker.Unlock()
	k := formatIndexValue(key)
	ids, ok := m.Map[k]
	if !ok {
		ids = map[string]struct{}{}
		m.Map[k] = ids
	}
	ids[id] = struct{}{}
}

// Remove drops id from the set for key, pruning the entry once the
// set is empty.
func (m *TableIndexMap) Remove(key any, id string) {
	m.locker.Lock()
	defer m.locker.Unlock()
	k := formatIndexValue(key)
	ids, ok := m.Map[k]
	if !ok {
		return
	}
	delete(ids, id)
	if len(ids) == 0 {
		delete(m.Map, k)
	}
}

// Lookup returns the ids stored under key in ascending order, so
// repeated lookups over unchanged data yield the same sequence.
func (m *TableIndexMap) Lookup(key any) []string {
	m.locker.RLock()
	defer m.locker.RUnlock()
	ids := m.Map[formatIndexValue(key)]
	found := make([]string, 0, len(ids))
	for id := range ids {
		found = append(found, id)
	}
	sort.Strings(found)
	return found
}
