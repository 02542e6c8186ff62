package apiclient

import (
	"context"
	"net/http"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// PendingBalloons lists balloon tasks awaiting preparation.
func (c *Client) PendingBalloons(ctx context.Context) ([]models.BalloonTask, error) {
	return getList[models.BalloonTask](ctx, c, "/balloon/pending")
}

// ReadyForPickupBalloons lists prepared balloons awaiting a courier.
func (c *Client) ReadyForPickupBalloons(ctx context.Context) ([]models.BalloonTask, error) {
	return getList[models.BalloonTask](ctx, c, "/balloon/ready-for-pickup")
}

// PickedUpBalloons lists balloons currently in courier hands.
func (c *Client) PickedUpBalloons(ctx context.Context) ([]models.BalloonTask, error) {
	return getList[models.BalloonTask](ctx, c, "/balloon/picked-up")
}

// DeliveredBalloons lists completed deliveries.
func (c *Client) DeliveredBalloons(ctx context.Context) ([]models.BalloonTask, error) {
	return getList[models.BalloonTask](ctx, c, "/balloon/delivered")
}

// UpdateBalloonStatus transitions one balloon task. The symbolic status
// is encoded to its numeric wire code here; the server enforces which
// transitions are legal and echoes the updated task.
func (c *Client) UpdateBalloonStatus(ctx context.Context, id string, status models.BalloonStatus, changedBy string) (models.BalloonTask, error) {
	var updated models.BalloonTask
	err := c.do(ctx, http.MethodPut, "/balloon/status", nil, models.BalloonStatusUpdate{
		ID:        id,
		Status:    status.Code(),
		ChangedBy: changedBy,
	}, &updated)
	return updated, err
}
