package apiclient

import (
	"context"
	"net/url"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// AllToiletRequests lists every toilet request regardless of status.
func (c *Client) AllToiletRequests(ctx context.Context) ([]models.ToiletRequest, error) {
	return getList[models.ToiletRequest](ctx, c, "/toiletRequest/all")
}

func (c *Client) PendingToiletRequests(ctx context.Context) ([]models.ToiletRequest, error) {
	return getList[models.ToiletRequest](ctx, c, "/toiletRequest/pending")
}

func (c *Client) InProgressToiletRequests(ctx context.Context) ([]models.ToiletRequest, error) {
	return getList[models.ToiletRequest](ctx, c, "/toiletRequest/in-progress")
}

func (c *Client) CompletedToiletRequests(ctx context.Context) ([]models.ToiletRequest, error) {
	return getList[models.ToiletRequest](ctx, c, "/toiletRequest/completed")
}

// CreateToiletRequest registers a new escort request for a team member.
func (c *Client) CreateToiletRequest(ctx context.Context, req models.ToiletRequestCreate) (models.ToiletRequest, error) {
	var created models.ToiletRequest
	err := c.post(ctx, "/toiletRequest/create", req, &created)
	return created, err
}

// UpdateToiletRequestStatus transitions one request, encoding the status
// to its numeric wire code.
func (c *Client) UpdateToiletRequestStatus(ctx context.Context, id string, status models.ToiletStatus, updatedBy, comment string) error {
	return c.post(ctx, "/toiletRequest/status", models.ToiletStatusUpdate{
		ID:        id,
		Status:    status.Code(),
		UpdatedBy: updatedBy,
		Comment:   comment,
	}, nil)
}

// DeleteToiletRequest removes a request outright. Admin-only server-side.
func (c *Client) DeleteToiletRequest(ctx context.Context, id string) error {
	return c.postQuery(ctx, "/toiletRequest/delete", url.Values{"id": {id}})
}
