package memtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	Name string
	Tags []string
}

func cloneRow(r *row) *row {
	c := *r
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

func TestTable_SnapshotIsIndependent(t *testing.T) {
	table := New(cloneRow)
	id := table.NextID()
	table.Put(id, &row{Name: "a", Tags: []string{"x"}})

	snap := table.Snapshot()
	updated, ok := snap.Get(id)
	require.True(t, ok)
	updated.Tags[0] = "changed"
	snap.Put(id, updated)
	snap.Put(snap.NextID(), &row{Name: "b"})

	original, ok := table.Get(id)
	require.True(t, ok)
	require.Equal(t, "x", original.Tags[0])
	require.Len(t, table.All(), 1)
	require.Len(t, snap.All(), 2)
}

func TestTable_GetReturnsCopy(t *testing.T) {
	table := New(cloneRow)
	table.Put(7, &row{Name: "a"})

	got, _ := table.Get(7)
	got.Name = "mutated"

	again, _ := table.Get(7)
	require.Equal(t, "a", again.Name)
	require.Equal(t, int64(8), table.NextID())
}

func TestTable_DeleteAndOrder(t *testing.T) {
	table := New(cloneRow)
	table.Put(3, &row{Name: "c"})
	table.Put(1, &row{Name: "a"})
	table.Put(2, &row{Name: "b"})

	require.True(t, table.Delete(2))
	require.False(t, table.Delete(2))

	all := table.All()
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].Name)
	require.Equal(t, "c", all[1].Name)
}
