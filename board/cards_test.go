package board

import (
	"strings"
	"testing"
	"time"

	"github.com/aabdoo23/nucpa-balloons/models"
)

func TestFormatBalloonCard(t *testing.T) {
	task := models.BalloonTask{
		TeamName:     "Team 42",
		ProblemIndex: "C",
		BalloonColor: "Gold",
		Status:       models.BalloonReadyForPickup,
		Timestamp:    time.Now().Add(-10 * time.Minute),
	}

	line := FormatBalloonCard(task, models.RoleCourier)
	for _, want := range []string{"Team 42", "problem C", "Gold", "#ffd700", "#ff9800", "PickUp/RevertToPending"} {
		if !strings.Contains(line, want) {
			t.Errorf("card %q missing %q", line, want)
		}
	}

	// Roles without actions on this status get no actions segment.
	if line := FormatBalloonCard(task, models.RoleAdmin); strings.Contains(line, "actions:") {
		t.Errorf("admin card %q should carry no actions", line)
	}
}

func TestFormatToiletCard(t *testing.T) {
	req := models.ToiletRequest{
		TeamName:  "Team 7",
		Status:    models.ToiletPending,
		IsUrgent:  true,
		IsMale:    false,
		Comment:   "near entrance",
		Timestamp: time.Now().Add(-time.Minute),
	}

	line := FormatToiletCard(req, models.RoleAdmin)
	for _, want := range []string{"Team 7", "URGENT", "female", `"near entrance"`, "#9e9e9e", "Start/Delete"} {
		if !strings.Contains(line, want) {
			t.Errorf("card %q missing %q", line, want)
		}
	}
}
