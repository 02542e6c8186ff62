package board

import (
	"strings"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// ColorCount is one balloon color with its total across all statuses.
// Color keeps the first-seen spelling for display.
type ColorCount struct {
	Color string
	Count int
}

// ColorCounts groups every balloon in the snapshot by color,
// case-insensitively, in order of first appearance.
func ColorCounts(updates models.BalloonUpdates) []ColorCount {
	var counts []ColorCount
	index := map[string]int{}

	for _, status := range models.BalloonStatuses {
		for _, task := range updates.ByStatus(status) {
			key := strings.ToLower(task.BalloonColor)
			if i, ok := index[key]; ok {
				counts[i].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, ColorCount{Color: task.BalloonColor, Count: 1})
		}
	}
	return counts
}

// MyCounts reports how many balloons the given operator currently holds
// and has delivered, per the statusChangedBy stamp.
type MyCounts struct {
	PickedUp  int
	Delivered int
}

func MyBalloonCounts(updates models.BalloonUpdates, userName string) MyCounts {
	var counts MyCounts
	for _, task := range updates.PickedUp {
		if task.StatusChangedBy == userName {
			counts.PickedUp++
		}
	}
	for _, task := range updates.Delivered {
		if task.StatusChangedBy == userName {
			counts.Delivered++
		}
	}
	return counts
}

// ToiletStats are the aggregate figures the admin dashboard shows:
// urgent counts only open requests (pending or in progress), male counts
// span every request.
type ToiletStats struct {
	Total  int
	Open   int
	Urgent int
	Male   int
}

func ToiletRequestStats(updates models.ToiletUpdates) ToiletStats {
	var stats ToiletStats
	open := append(append([]models.ToiletRequest{}, updates.Pending...), updates.InProgress...)
	for _, req := range open {
		if req.IsUrgent {
			stats.Urgent++
		}
	}
	stats.Open = len(open)
	stats.Total = updates.Total()
	for _, status := range models.ToiletStatuses {
		for _, req := range updates.ByStatus(status) {
			if req.IsMale {
				stats.Male++
			}
		}
	}
	return stats
}
