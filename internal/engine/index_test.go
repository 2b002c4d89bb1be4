package engine_test

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/tablodb/tablo/internal/engine"
	"github.com/tablodb/tablo/internal/schema"
	"gotest.tools/assert"
)

func TestIndexMapAddIsIdempotent(t *testing.T) {
	m := NewTableIndexMap()
	m.Add("a@x.com", "u1")
	m.Add("a@x.com", "u1")
	assert.DeepEqual(t, m.Lookup("a@x.com"), []string{"u1"})
}

func TestIndexMapRemovePrunesEmptySets(t *testing.T) {
	m := NewTableIndexMap()
	m.Add("a@x.com", "u1")
	m.Remove("a@x.com", "u1")
	assert.Equal(t, m.Has("a@x.com"), false)
	assert.Equal(t, len(m.Lookup("a@x.com")), 0)

	// removing from a pruned entry is a no-op
	m.Remove("a@x.com", "u1")
}

func TestIndexMapLookupOrderIsStable(t *testing.T) {
	m := NewTableIndexMap()
	m.Add(1, "u3")
	m.Add(1, "u1")
	m.Add(1, "u2")
	assert.DeepEqual(t, m.Lookup(1), []string{"u1", "u2", "u3"})
	assert.DeepEqual(t, m.Lookup(1), []string{"u1", "u2", "u3"})
}

func TestIndexMapNumericKeysNormalize(t *testing.T) {
	// json decodes numbers as float64; yaml seeds decode as int
	m := NewTableIndexMap()
	m.Add(7, "u1")
	assert.DeepEqual(t, m.Lookup(float64(7)), []string{"u1"})
}

func TestNilValuesAreNotIndexed(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create("users", Record{"id": "u1", "full_name": "Ada"})
	assert.NilError(t, err)
	_, err = e.Create("users", Record{"id": "u2", "email": nil})
	assert.NilError(t, err)

	found, err := e.FindBy("users", "email", nil)
	assert.NilError(t, err)
	assert.Equal(t, len(found), 0)

	found, err = e.FindBy("users", "email", "<nil>")
	assert.NilError(t, err)
	assert.Equal(t, len(found), 0)
}

func TestUpdateToNilRemovesIndexEntry(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create("users", Record{"id": "u1", "email": "a@x.com"})
	assert.NilError(t, err)

	_, err = e.Update("users", "u1", Record{"email": nil})
	assert.NilError(t, err)

	found, err := e.FindBy("users", "email", "a@x.com")
	assert.NilError(t, err)
	assert.Equal(t, len(found), 0)
}

// Drives a random create/update/delete sequence and checks after every
// step that index lookups agree with a scan-derived ground truth.
func TestIndexMatchesGroundTruth(t *testing.T) {
	cfg := &schema.Config{Tables: map[string]schema.Table{
		"events": {Indexed: []string{"kind"}},
	}}
	e, err := New(cfg)
	assert.NilError(t, err)

	rng := rand.New(rand.NewSource(42))
	kinds := []string{"click", "view", "scroll", "close"}
	truth := map[string]string{} // id -> kind ("" means no kind field)
	next_id := 0

	check := func(step int) {
		for _, kind := range kinds {
			want := map[string]bool{}
			for id, k := range truth {
				if k == kind {
					want[id] = true
				}
			}
			found, err := e.FindBy("events", "kind", kind)
			assert.NilError(t, err)
			assert.Equal(t, len(found), len(want), "step %d kind %s", step, kind)
			for _, row := range found {
				assert.Equal(t, row.Get("kind"), kind, "step %d", step)
				assert.Assert(t, want[GetPrimaryKey(row)], "step %d: unexpected id %s", step, GetPrimaryKey(row))
			}
		}
	}

	randomId := func() (string, bool) {
		if len(truth) == 0 {
			return "", false
		}
		ids := make([]string, 0, len(truth))
		for id := range truth {
			ids = append(ids, id)
		}
		return ids[rng.Intn(len(ids))], true
	}

	for step := 0; step < 300; step++ {
		switch op := rng.Intn(4); op {
		case 0, 1: // create, sometimes without the indexed field
			id := fmt.Sprintf("e%04d", next_id)
			next_id++
			if rng.Intn(5) == 0 {
				_, err := e.Create("events", Record{"id": id, "payload": step})
				assert.NilError(t, err)
				truth[id] = ""
			} else {
				kind := kinds[rng.Intn(len(kinds))]
				_, err := e.Create("events", Record{"id": id, "kind": kind, "payload": step})
				assert.NilError(t, err)
				truth[id] = kind
			}
		case 2: // update to another kind
			if id, ok := randomId(); ok {
				kind := kinds[rng.Intn(len(kinds))]
				_, err := e.Update("events", id, Record{"kind": kind})
				assert.NilError(t, err)
				truth[id] = kind
			}
		case 3: // delete
			if id, ok := randomId(); ok {
				assert.NilError(t, e.Delete("events", id))
				delete(truth, id)
			}
		}
		check(step)
	}
}
