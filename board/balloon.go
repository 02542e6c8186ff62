package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aabdoo23/nucpa-balloons/apiclient"
	"github.com/aabdoo23/nucpa-balloons/models"
	"github.com/aabdoo23/nucpa-balloons/session"
)

// SessionSource yields the current operator session; satisfied by the
// session store.
type SessionSource interface {
	Session() session.Session
}

// ErrNotReady is returned by mutations before the operator has set a
// display name and role.
var ErrNotReady = fmt.Errorf("set a display name and role before acting on tasks")

// Tab is one status tab with its count, as shown in the tab strip.
type Tab struct {
	Label string
	Count int
}

// BalloonBoard owns the balloon workflow page's mirror of server state.
// Two update sources feed it: an explicit Load and pushed snapshots; the
// later writer wins, which is the accepted consistency model of the
// whole dashboard.
type BalloonBoard struct {
	client *apiclient.Client
	sess   SessionSource
	log    *slog.Logger

	mu      sync.Mutex
	loading bool
	loadErr error
	updates models.BalloonUpdates
}

func NewBalloonBoard(client *apiclient.Client, sess SessionSource, log *slog.Logger) *BalloonBoard {
	if log == nil {
		log = slog.Default()
	}
	return &BalloonBoard{client: client, sess: sess, log: log}
}

// Load replaces all four collections from the backend. The four fetches
// run in parallel; any single failure puts the whole board in the error
// state with every collection emptied. No automatic retry: the caller
// re-invokes Load.
func (b *BalloonBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.loadErr = nil
	b.mu.Unlock()

	var (
		wg        sync.WaitGroup
		pending   []models.BalloonTask
		ready     []models.BalloonTask
		picked    []models.BalloonTask
		delivered []models.BalloonTask
		errs      [4]error
	)
	wg.Add(4)
	go func() { defer wg.Done(); pending, errs[0] = b.client.PendingBalloons(ctx) }()
	go func() { defer wg.Done(); ready, errs[1] = b.client.ReadyForPickupBalloons(ctx) }()
	go func() { defer wg.Done(); picked, errs[2] = b.client.PickedUpBalloons(ctx) }()
	go func() { defer wg.Done(); delivered, errs[3] = b.client.DeliveredBalloons(ctx) }()
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	for _, err := range errs {
		if err != nil {
			b.loadErr = err
			b.updates = models.BalloonUpdates{
				Pending:        []models.BalloonTask{},
				ReadyForPickup: []models.BalloonTask{},
				PickedUp:       []models.BalloonTask{},
				Delivered:      []models.BalloonTask{},
			}
			return err
		}
	}
	b.updates = models.BalloonUpdates{
		Pending:        pending,
		ReadyForPickup: ready,
		PickedUp:       picked,
		Delivered:      delivered,
	}
	return nil
}

// ApplyUpdates replaces the board's collections with a pushed snapshot.
func (b *BalloonBoard) ApplyUpdates(updates models.BalloonUpdates) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = updates
	b.loadErr = nil
}

// Snapshot returns the current collections.
func (b *BalloonBoard) Snapshot() models.BalloonUpdates {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updates
}

// Loading reports whether an initial Load is in flight.
func (b *BalloonBoard) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Err returns the load error gating the page-level banner, if any.
func (b *BalloonBoard) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

// Mutations. Each stamps the current operator as the acting user and, on
// failure, falls back to a full reload so the board resynchronizes with
// server truth; there is no optimistic local update to roll back.

func (b *BalloonBoard) MarkReady(ctx context.Context, task models.BalloonTask) error {
	return b.transition(ctx, task, models.BalloonReadyForPickup)
}

func (b *BalloonBoard) PickUp(ctx context.Context, task models.BalloonTask) error {
	return b.transition(ctx, task, models.BalloonPickedUp)
}

func (b *BalloonBoard) Deliver(ctx context.Context, task models.BalloonTask) error {
	return b.transition(ctx, task, models.BalloonDelivered)
}

// Revert moves a delivered balloon back to picked up.
func (b *BalloonBoard) Revert(ctx context.Context, task models.BalloonTask) error {
	return b.transition(ctx, task, models.BalloonPickedUp)
}

// RevertToReady moves a picked-up balloon back to ready for pickup.
func (b *BalloonBoard) RevertToReady(ctx context.Context, task models.BalloonTask) error {
	return b.transition(ctx, task, models.BalloonReadyForPickup)
}

// RevertToPending moves a ready balloon back to pending.
func (b *BalloonBoard) RevertToPending(ctx context.Context, task models.BalloonTask) error {
	return b.transition(ctx, task, models.BalloonPending)
}

func (b *BalloonBoard) transition(ctx context.Context, task models.BalloonTask, to models.BalloonStatus) error {
	sess := b.sess.Session()
	if !sess.Ready() {
		return ErrNotReady
	}
	if _, err := b.client.UpdateBalloonStatus(ctx, task.ID, to, sess.UserName); err != nil {
		b.log.Warn("balloon status update failed, reloading",
			"task", task.ID, "to", string(to), "error", err)
		if reloadErr := b.Load(ctx); reloadErr != nil {
			b.log.Warn("reload after failed update also failed", "error", reloadErr)
		}
		return err
	}
	return nil
}

// Tabs returns the status tabs with counts for the given role. Couriers
// never see the Pending tab; everyone else sees all four.
func (b *BalloonBoard) Tabs(role models.Role) []Tab {
	snapshot := b.Snapshot()
	tabs := []Tab{
		{Label: fmt.Sprintf("Pending (%d)", len(snapshot.Pending)), Count: len(snapshot.Pending)},
		{Label: fmt.Sprintf("Ready for Pickup (%d)", len(snapshot.ReadyForPickup)), Count: len(snapshot.ReadyForPickup)},
		{Label: fmt.Sprintf("Picked Up (%d)", len(snapshot.PickedUp)), Count: len(snapshot.PickedUp)},
		{Label: fmt.Sprintf("Delivered (%d)", len(snapshot.Delivered)), Count: len(snapshot.Delivered)},
	}
	if role == models.RoleCourier {
		return tabs[1:]
	}
	return tabs
}

// FilterByRoom keeps tasks in the named room (exact, case-insensitive).
// An empty room name keeps everything.
func FilterByRoom(tasks []models.BalloonTask, room string) []models.BalloonTask {
	if room == "" {
		return tasks
	}
	var out []models.BalloonTask
	for _, task := range tasks {
		if strings.EqualFold(task.RoomName, room) {
			out = append(out, task)
		}
	}
	return out
}

// FilterMine keeps tasks whose last status change was made by the given
// operator.
func FilterMine(tasks []models.BalloonTask, userName string) []models.BalloonTask {
	var out []models.BalloonTask
	for _, task := range tasks {
		if task.StatusChangedBy == userName {
			out = append(out, task)
		}
	}
	return out
}
