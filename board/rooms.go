package board

import (
	"regexp"
	"strconv"
)

var trailingNumber = regexp.MustCompile(`\d+$`)

type roomRange struct {
	start, end int
	room       string
}

// Contest-site seating plan: team numbers map onto lab rooms in fixed
// blocks. Used as a fallback when a task arrives without a room name.
var roomRanges = []roomRange{
	{1, 17, "Lab-01"},
	{18, 34, "Lab-52"},
	{35, 52, "Lab-53"},
	{53, 72, "Lab-264"},
	{73, 89, "Lab-216-B"},
	{90, 104, "Lab-265"},
	{105, 114, "Lab-7"},
	{115, 132, "Lab-G29"},
	{133, 150, "Lab-G18"},
	{151, 170, "Lab-G17"},
}

// RoomFromTeamName derives a room name from the trailing number in a
// team name, or returns "" when the name has no number or the number is
// outside every block.
func RoomFromTeamName(teamName string) string {
	match := trailingNumber.FindString(teamName)
	if match == "" {
		return ""
	}
	number, err := strconv.Atoi(match)
	if err != nil {
		return ""
	}
	for _, r := range roomRanges {
		if number >= r.start && number <= r.end {
			return r.room
		}
	}
	return ""
}
