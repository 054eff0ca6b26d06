package aggregate

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"featurepipe/pkg/table"
)

// Seeds keep a number and the text spelling of the same value in different
// hash streams.
const (
	seedNumber uint64 = 0x6e756d
	seedText   uint64 = 0x747874
)

// cellHash hashes a non-missing cell without building an intermediate
// string. Numbers hash their IEEE bits with -0 folded into 0.
func cellHash(v any) uint64 {
	if f, ok := table.Float(v); ok {
		if f == 0 {
			f = 0
		}
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		return xxh3.HashSeed(b[:], seedNumber)
	}
	return xxh3.HashStringSeed(table.Text(v), seedText)
}

// sameCell reports whether two non-missing cells belong to the same group.
// Text never equals a number.
func sameCell(a, b any) bool {
	fa, na := table.Float(a)
	fb, nb := table.Float(b)
	if na || nb {
		return na && nb && fa == fb
	}
	return table.Text(a) == table.Text(b)
}

// keySet maps distinct cells to dense ids in first-seen order. Buckets are
// keyed by cellHash; a collision falls back to sameCell on the stored cell.
type keySet struct {
	buckets map[uint64][]slot
	n       int
}

type slot struct {
	cell any
	id   int
}

func newKeySet(hint int) *keySet {
	return &keySet{buckets: make(map[uint64][]slot, hint)}
}

// id returns the id of v, assigning the next one when v is new.
func (s *keySet) id(v any) int {
	h := cellHash(v)
	for _, sl := range s.buckets[h] {
		if sameCell(sl.cell, v) {
			return sl.id
		}
	}
	id := s.n
	s.n++
	s.buckets[h] = append(s.buckets[h], slot{cell: v, id: id})
	return id
}

// groupIndex assigns every row a dense group id in first-seen order. Rows
// with a missing key get -1.
type groupIndex struct {
	rows   []int
	groups int
}

func buildIndex(col []any) groupIndex {
	idx := groupIndex{rows: make([]int, len(col))}
	keys := newKeySet(0)
	for i, v := range col {
		if table.IsMissing(v) {
			idx.rows[i] = -1
			continue
		}
		idx.rows[i] = keys.id(v)
	}
	idx.groups = keys.n
	return idx
}

// distinct counts the distinct cells of one group.
func distinct(cells []any) int {
	s := newKeySet(len(cells))
	for _, c := range cells {
		s.id(c)
	}
	return s.n
}

// group holds one group's cells of a value column.
type group struct {
	size  int       // rows in the group, missing cells included
	cells []any     // non-missing cells
	nums  []float64 // numeric cells; shared by every func over the column
}

func gather(idx groupIndex, col []any) []group {
	gs := make([]group, idx.groups)
	for i, id := range idx.rows {
		if id < 0 {
			continue
		}
		g := &gs[id]
		g.size++
		v := col[i]
		if table.IsMissing(v) {
			continue
		}
		g.cells = append(g.cells, v)
		if f, ok := table.Float(v); ok {
			g.nums = append(g.nums, f)
		}
	}
	return gs
}
