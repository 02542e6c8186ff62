package board

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aabdoo23/nucpa-balloons/colors"
	"github.com/aabdoo23/nucpa-balloons/models"
)

// Card renderers: stateless single-task formatters for the watch mode.
// Each line carries the badges a dashboard card shows (status, urgency,
// resolved color) and the actions the role may take.

// FormatBalloonCard renders one balloon task as a single text line.
func FormatBalloonCard(task models.BalloonTask, role models.Role) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s %s] %s  problem %s  %s (%s)",
		task.Status, colors.Status(task.Status),
		task.DisplayName(), task.ProblemIndex,
		task.BalloonColor, colors.Balloon(task.BalloonColor))
	fmt.Fprintf(&sb, "  %s", humanize.Time(task.Timestamp))
	if task.StatusChangedBy != "" {
		fmt.Fprintf(&sb, "  by %s", task.StatusChangedBy)
	}
	if actions := BalloonActions(role, task.Status); len(actions) > 0 {
		fmt.Fprintf(&sb, "  actions: %s", joinActions(actions))
	}
	return sb.String()
}

// FormatToiletCard renders one toilet request as a single text line.
func FormatToiletCard(req models.ToiletRequest, role models.Role) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s %s] %s", req.Status, colors.ToiletStatus(req.Status), req.DisplayName())
	if req.IsUrgent {
		sb.WriteString("  URGENT")
	}
	if req.IsMale {
		sb.WriteString("  male")
	} else {
		sb.WriteString("  female")
	}
	if req.Comment != "" {
		fmt.Fprintf(&sb, "  %q", req.Comment)
	}
	fmt.Fprintf(&sb, "  %s", humanize.Time(req.Timestamp))
	if req.StatusChangedBy != "" {
		fmt.Fprintf(&sb, "  by %s", req.StatusChangedBy)
	}
	if actions := ToiletActions(role, req.Status); len(actions) > 0 {
		fmt.Fprintf(&sb, "  actions: %s", joinActions(actions))
	}
	return sb.String()
}

func joinActions(actions []Action) string {
	parts := make([]string, len(actions))
	for i, action := range actions {
		parts[i] = string(action)
	}
	return strings.Join(parts, "/")
}
