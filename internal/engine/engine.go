package engine

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tablodb/tablo/internal/schema"
	"github.com/tablodb/tablo/pkg"
)

type TableMap = pkg.Map[string, *Table]

// Engine is the process-wide store. Construct one with New at startup
// and hand the pointer to every collaborator; there is no
// package-level instance.
type Engine struct {
	// guards growth of Tables and LastChange. Table contents are
	// protected by each table's own locks.
	locker sync.RWMutex
	Tables TableMap

	LastChange time.Time
}

func (e *Engine) GetLocker() *sync.RWMutex { return &e.locker }

// New builds an engine from the schema config: declared tables get
// their indexed fields up front, and seed records are inserted through
// the normal create path so their index entries are built with them.
func New(cfg *schema.Config) (*Engine, error) {
	e := &Engine{Tables: TableMap{}, LastChange: time.Now()}
	for name, table := range cfg.Tables {
		e.Tables.Set(name, NewTable(name, table.Indexed))
	}
	for name, table := range cfg.Tables {
		for _, row := range table.Seed {
			if _, err := e.Create(name, Record(row)); err != nil {
				return nil, errors.Wrapf(err, "seeding table %s", name)
			}
		}
	}
	return e, nil
}

// Table returns the named table, creating it on first use. Creation is
// double-checked under the engine lock so two concurrent first-writers
// to a new name always share one instance.
func (e *Engine) Table(name string) *Table {
	e.locker.RLock()
	t := e.Tables.Get(name)
	e.locker.RUnlock()
	if t != nil {
		return t
	}

	e.locker.Lock()
	defer e.locker.Unlock()
	if t := e.Tables.Get(name); t != nil {
		return t
	}
	t = NewTable(name, nil)
	e.Tables.Set(name, t)
	return t
}

// lookupTable is the read-side accessor: it never creates the table.
func (e *Engine) lookupTable(name string) (*Table, bool) {
	e.locker.RLock()
	defer e.locker.RUnlock()
	t := e.Tables.Get(name)
	return t, t != nil
}

// Stats reports the current row count per table.
func (e *Engine) Stats() map[string]int {
	e.locker.RLock()
	defer e.locker.RUnlock()
	stats := make(map[string]int, len(e.Tables))
	for name, t := range e.Tables {
		stats[name] = t.Rows.Len()
	}
	return stats
}
