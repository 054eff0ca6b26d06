package builtin

import (
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"featurepipe/internal/coerce"
	"featurepipe/pkg/table"
)

// Marker is a room-type indicator: Column is 1 when Token occurs anywhere in
// the floor-plan text.
type Marker struct {
	Column string
	Token  string
}

// RoomMarkers are the floor-plan indicators. They are tested independently,
// so "2LDK+S" sets L, D, K and S at once.
var RoomMarkers = []Marker{
	{Column: "L", Token: "L"},
	{Column: "D", Token: "D"},
	{Column: "K", Token: "K"},
	{Column: "S", Token: "S"},
	{Column: "R", Token: "R"},
	{Column: "Maisonette", Token: "メゾネット"},
	{Column: "OpenFloor", Token: "オープンフロア"},
	{Column: "Studio", Token: "スタジオ"},
}

// FloorPlan decomposes a floor-plan string into a room count and one 0/1
// column per marker. Run Narrow on the column first so that full-width
// letters match.
type FloorPlan struct {
	Column      string
	RoomsOutput string   // defaults to "num_of_rooms"
	Markers     []Marker // defaults to RoomMarkers
}

func (f FloorPlan) markers() []Marker {
	if len(f.Markers) == 0 {
		return RoomMarkers
	}
	return f.Markers
}

func (f FloorPlan) Reads() []string { return []string{f.Column} }

func (f FloorPlan) Writes() []string {
	out := []string{or(f.RoomsOutput, "num_of_rooms")}
	for _, m := range f.markers() {
		out = append(out, m.Column)
	}
	return out
}

func (f FloorPlan) Apply(t table.Table) (table.Table, error) {
	src, err := t.Column(f.Column)
	if err != nil {
		return t, err
	}
	markers := f.markers()
	rooms := make([]any, len(src))
	flags := make([][]any, len(markers))
	for j := range flags {
		flags[j] = make([]any, len(src))
	}
	for i, v := range src {
		s := table.Text(v)
		rooms[i] = coerce.RoomCount(s)
		for j, m := range markers {
			flags[j][i] = flag(strings.Contains(s, m.Token))
		}
	}
	names := f.Writes()
	return t.WithColumns(names, append([][]any{rooms}, flags...))
}

// Narrow fills missing cells with Fill and folds full-width characters to
// their half-width forms (ＬＤＫ -> LDK, ﾒｿﾞﾈｯﾄ -> メゾネット). It is idempotent
// and defined for every string, including the fill placeholder.
type Narrow struct {
	Columns []string
	Fill    string // defaults to coerce.NoData
}

func (n Narrow) Reads() []string  { return n.Columns }
func (n Narrow) Writes() []string { return n.Columns }

func (n Narrow) Apply(t table.Table) (table.Table, error) {
	if err := t.Require(n.Columns...); err != nil {
		return t, err
	}
	fill := or(n.Fill, coerce.NoData)
	// transform.Chain is stateful; one per Apply keeps Narrow safe to share.
	tr := transform.Chain(width.Fold, norm.NFC)
	out := t
	for _, c := range n.Columns {
		var err error
		out, err = mapColumn(out, c, c, func(v any) any {
			if table.IsMissing(v) {
				return fill
			}
			s, _, err := transform.String(tr, table.Text(v))
			if err != nil {
				return table.Text(v)
			}
			return s
		})
		if err != nil {
			return t, err
		}
	}
	return out, nil
}
