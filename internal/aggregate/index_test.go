package aggregate

import (
	"math"
	"reflect"
	"testing"
)

/*
TestBuildIndex covers group ids in first-seen order. A number and its text
spelling are different keys, -0 joins 0, and int cells join equal floats.
Missing keys get -1.
*/
func TestBuildIndex(t *testing.T) {
	tests := []struct {
		name   string
		col    []any
		rows   []int
		groups int
	}{
		{"text", []any{"b", "a", "b"}, []int{0, 1, 0}, 2},
		{"number vs text", []any{1.0, "1", 1.0}, []int{0, 1, 0}, 2},
		{"signed zero", []any{0.0, math.Copysign(0, -1)}, []int{0, 0}, 1},
		{"int and float", []any{2, 2.0, int64(2)}, []int{0, 0, 0}, 1},
		{"missing", []any{nil, "a", math.NaN()}, []int{-1, 0, -1}, 1},
		{"empty", nil, []int{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := buildIndex(tt.col)
			if !reflect.DeepEqual(idx.rows, tt.rows) || idx.groups != tt.groups {
				t.Fatalf("index = %v (%d groups), want %v (%d groups)", idx.rows, idx.groups, tt.rows, tt.groups)
			}
		})
	}
}

// Cells that land in one hash bucket still get separate ids.
func TestKeySetCollision(t *testing.T) {
	s := newKeySet(0)
	h := cellHash("x")
	s.buckets[h] = append(s.buckets[h], slot{cell: "y", id: 0})
	s.n = 1
	if id := s.id("x"); id != 1 {
		t.Fatalf("id(x) = %d, want 1", id)
	}
	if id := s.id("x"); id != 1 {
		t.Fatalf("second id(x) = %d, want 1", id)
	}
}

func TestDistinct(t *testing.T) {
	tests := []struct {
		cells []any
		want  int
	}{
		{[]any{"a", "a", "b"}, 2},
		{[]any{1.0, "1", 1}, 2},
		{[]any{0.0, math.Copysign(0, -1), 3.5}, 2},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := distinct(tt.cells); got != tt.want {
			t.Fatalf("distinct(%v) = %d, want %d", tt.cells, got, tt.want)
		}
	}
}
