package pipeline

import (
	"featurepipe/internal/coerce"
	"featurepipe/internal/transformer/builtin"
)

// Columns names the raw columns the default preprocessing reads, plus the
// derived columns it writes.
type Columns struct {
	FloorPlan            string
	BuildingYear         string
	TimeToNearestStation string
	TotalFloorArea       string
	Area                 string
	Type                 string
	Frontage             string
	Breadth              string
	Period               string
	ElapsedYear          string
}

// DefaultColumns returns the column names of the MLIT transaction export.
func DefaultColumns() Columns {
	return Columns{
		FloorPlan:            "FloorPlan",
		BuildingYear:         "BuildingYear",
		TimeToNearestStation: "TimeToNearestStation",
		TotalFloorArea:       "TotalFloorArea",
		Area:                 "Area",
		Type:                 "Type",
		Frontage:             "Frontage",
		Breadth:              "Breadth",
		Period:               "Period",
		ElapsedYear:          "ElapsedYear",
	}
}

// Derived ratio columns written by the default steps.
const (
	TotalFloorAreaDivArea = "total_floor_area_div_area"
	AreaPerRoom           = "total_floor_area"
	AreaDivFrontage       = "area_div_frontage"
	FrontageDivBreadth    = "frontage_div_breadth"
	RoomCount             = "num_of_rooms"
)

// LandTypes are the Type values whose Area is reported ten times too large.
var LandTypes = []string{"林地", "農地"}

// Default returns the end-to-end preprocessing steps in order.
func Default(c Columns) []Step {
	return []Step{
		{"narrow_floor_plan", builtin.Narrow{Columns: []string{c.FloorPlan}, Fill: coerce.NoData}},
		{"building_year", builtin.EraYear{Column: c.BuildingYear}},
		{"walk_time", builtin.Decode{Column: c.TimeToNearestStation, Decoder: coerce.WalkTime}},
		{"total_floor_area", builtin.Decode{Column: c.TotalFloorArea, Decoder: coerce.FloorArea}},
		{"area", builtin.Decode{Column: c.Area, Decoder: coerce.LotArea}},
		{"area_land_scale", builtin.ScaleWhere{Column: c.Area, Category: c.Type, Values: LandTypes, Factor: 0.1}},
		{"frontage", builtin.Decode{Column: c.Frontage, Decoder: coerce.Frontage}},
		{"floor_plan", builtin.FloorPlan{Column: c.FloorPlan, RoomsOutput: RoomCount}},
		{"breadth", builtin.Numeric{Columns: []string{c.Breadth}}},
		{"period", builtin.Period{Column: c.Period}},
		{"elapsed_year", builtin.Elapsed{Period: c.Period, Built: c.BuildingYear, Output: c.ElapsedYear}},
		{"ratio_total_floor_area_div_area", builtin.Ratio{Numerator: c.TotalFloorArea, Denominator: c.Area, Output: TotalFloorAreaDivArea}},
		{"ratio_area_per_room", builtin.Ratio{Numerator: c.Area, Denominator: RoomCount, Output: AreaPerRoom}},
		{"ratio_area_div_frontage", builtin.Ratio{Numerator: c.Area, Denominator: c.Frontage, Output: AreaDivFrontage}},
		{"ratio_frontage_div_breadth", builtin.Ratio{Numerator: c.Frontage, Denominator: c.Breadth, Output: FrontageDivBreadth}},
	}
}
