package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aabdoo23/nucpa-balloons/apiclient"
	"github.com/aabdoo23/nucpa-balloons/models"
)

// ToiletBoard owns the toilet-request workflow page's mirror of server
// state: the three status collections plus the team list used by the
// new-request form.
type ToiletBoard struct {
	client *apiclient.Client
	sess   SessionSource
	log    *slog.Logger

	mu      sync.Mutex
	loading bool
	loadErr error
	updates models.ToiletUpdates
	teams   []models.Team
}

func NewToiletBoard(client *apiclient.Client, sess SessionSource, log *slog.Logger) *ToiletBoard {
	if log == nil {
		log = slog.Default()
	}
	return &ToiletBoard{client: client, sess: sess, log: log}
}

// Load replaces the three collections and the team list. Parallel
// fetches, fail-fast: any error empties everything and sets the error
// state.
func (b *ToiletBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.loadErr = nil
	b.mu.Unlock()

	var (
		wg         sync.WaitGroup
		pending    []models.ToiletRequest
		inProgress []models.ToiletRequest
		completed  []models.ToiletRequest
		teams      []models.Team
		errs       [4]error
	)
	wg.Add(4)
	go func() { defer wg.Done(); pending, errs[0] = b.client.PendingToiletRequests(ctx) }()
	go func() { defer wg.Done(); inProgress, errs[1] = b.client.InProgressToiletRequests(ctx) }()
	go func() { defer wg.Done(); completed, errs[2] = b.client.CompletedToiletRequests(ctx) }()
	go func() { defer wg.Done(); teams, errs[3] = b.client.AllTeams(ctx) }()
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	for _, err := range errs {
		if err != nil {
			b.loadErr = err
			b.updates = models.ToiletUpdates{
				Pending:    []models.ToiletRequest{},
				InProgress: []models.ToiletRequest{},
				Completed:  []models.ToiletRequest{},
			}
			b.teams = []models.Team{}
			return err
		}
	}
	b.updates = models.ToiletUpdates{Pending: pending, InProgress: inProgress, Completed: completed}
	b.teams = teams
	return nil
}

// ApplyUpdates replaces the request collections with a pushed snapshot.
// The team list is REST-only and keeps its last loaded value.
func (b *ToiletBoard) ApplyUpdates(updates models.ToiletUpdates) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = updates
	b.loadErr = nil
}

func (b *ToiletBoard) Snapshot() models.ToiletUpdates {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updates
}

func (b *ToiletBoard) Teams() []models.Team {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.teams
}

func (b *ToiletBoard) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *ToiletBoard) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

// Tabs returns the three status tabs with counts.
func (b *ToiletBoard) Tabs() []Tab {
	snapshot := b.Snapshot()
	return []Tab{
		{Label: fmt.Sprintf("Pending (%d)", len(snapshot.Pending)), Count: len(snapshot.Pending)},
		{Label: fmt.Sprintf("In Progress (%d)", len(snapshot.InProgress)), Count: len(snapshot.InProgress)},
		{Label: fmt.Sprintf("Completed (%d)", len(snapshot.Completed)), Count: len(snapshot.Completed)},
	}
}

// Start moves a pending request to in progress.
func (b *ToiletBoard) Start(ctx context.Context, req models.ToiletRequest) error {
	return b.transition(ctx, req, models.ToiletInProgress)
}

// Complete finishes an in-progress request.
func (b *ToiletBoard) Complete(ctx context.Context, req models.ToiletRequest) error {
	return b.transition(ctx, req, models.ToiletCompleted)
}

func (b *ToiletBoard) transition(ctx context.Context, req models.ToiletRequest, to models.ToiletStatus) error {
	sess := b.sess.Session()
	if !sess.Ready() {
		return ErrNotReady
	}
	if err := b.client.UpdateToiletRequestStatus(ctx, req.ID, to, sess.UserName, ""); err != nil {
		b.log.Warn("toilet request update failed, reloading",
			"request", req.ID, "to", string(to), "error", err)
		if reloadErr := b.Load(ctx); reloadErr != nil {
			b.log.Warn("reload after failed update also failed", "error", reloadErr)
		}
		return err
	}
	return nil
}

// Create registers a new request stamped with the current operator.
func (b *ToiletBoard) Create(ctx context.Context, teamID string, isMale, isUrgent bool, comment string) error {
	sess := b.sess.Session()
	if !sess.Ready() {
		return ErrNotReady
	}
	if teamID == "" {
		return fmt.Errorf("a team must be selected")
	}
	_, err := b.client.CreateToiletRequest(ctx, models.ToiletRequestCreate{
		TeamID:    teamID,
		IsMale:    isMale,
		IsUrgent:  isUrgent,
		Comment:   comment,
		ChangedBy: sess.UserName,
	})
	if err != nil {
		b.log.Warn("toilet request create failed, reloading", "team", teamID, "error", err)
		if reloadErr := b.Load(ctx); reloadErr != nil {
			b.log.Warn("reload after failed create also failed", "error", reloadErr)
		}
		return err
	}
	return nil
}

// Delete removes a request outright; the backend restricts this to
// admins.
func (b *ToiletBoard) Delete(ctx context.Context, req models.ToiletRequest) error {
	sess := b.sess.Session()
	if !sess.Ready() {
		return ErrNotReady
	}
	if err := b.client.DeleteToiletRequest(ctx, req.ID); err != nil {
		b.log.Warn("toilet request delete failed, reloading", "request", req.ID, "error", err)
		if reloadErr := b.Load(ctx); reloadErr != nil {
			b.log.Warn("reload after failed delete also failed", "error", reloadErr)
		}
		return err
	}
	return nil
}
