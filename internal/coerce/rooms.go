package coerce

import (
	"strings"
	"unicode/utf8"
)

// NoData is the placeholder written into empty floor-plan cells.
const NoData = "NaN"

// RoomCount returns the number of rooms encoded by the leading digit of a
// floor-plan string ("3LDK" -> 3). Empty strings and the no-data tokens
// ("NaN", "nan", "<NA>") count as 0. Any other non-digit leading character
// counts as 1 room.
func RoomCount(plan string) float64 {
	plan = fold(plan)
	if plan == "" || plan == "<NA>" || strings.EqualFold(plan, NoData) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(plan)
	if r >= '0' && r <= '9' {
		return float64(r - '0')
	}
	return 1
}
