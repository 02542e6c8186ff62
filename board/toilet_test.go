package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aabdoo23/nucpa-balloons/models"
	"github.com/aabdoo23/nucpa-balloons/session"
	"github.com/aabdoo23/nucpa-balloons/testutil"
)

func accompanierSession() fixedSession {
	return fixedSession{sess: session.Session{UserName: "Cara", Role: models.RoleAccompanier}}
}

func TestToiletBoardLoad(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Toilet.Pending = []models.ToiletRequest{testutil.Toilet(models.ToiletPending)}
	backend.Toilet.Completed = []models.ToiletRequest{
		testutil.Toilet(models.ToiletCompleted),
		testutil.Toilet(models.ToiletCompleted),
	}
	backend.Teams = []models.Team{{ID: "team-1"}}

	board := NewToiletBoard(newTestClient(t, backend), accompanierSession(), quietLogger())
	if err := board.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	snapshot := board.Snapshot()
	if len(snapshot.Pending) != 1 || len(snapshot.Completed) != 2 {
		t.Errorf("Pending/Completed = %d/%d, want 1/2",
			len(snapshot.Pending), len(snapshot.Completed))
	}
	if len(board.Teams()) != 1 {
		t.Errorf("Teams = %d, want 1", len(board.Teams()))
	}
}

func TestToiletBoardLoadFailure(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Toilet.Pending = []models.ToiletRequest{testutil.Toilet(models.ToiletPending)}
	backend.FailPath("/toiletRequest/completed", http.StatusServiceUnavailable)

	board := NewToiletBoard(newTestClient(t, backend), accompanierSession(), quietLogger())
	if err := board.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if board.Snapshot().Total() != 0 {
		t.Errorf("Total = %d after failed load, want 0", board.Snapshot().Total())
	}
}

func TestToiletBoardStaleSnapshotAfterDelete(t *testing.T) {
	// Deleting then receiving a stale pushed snapshot resurrects the
	// request locally until the next snapshot. Last write wins; there is
	// no local merging.
	backend := testutil.NewBackend(t)
	req := testutil.Toilet(models.ToiletPending)

	board := NewToiletBoard(newTestClient(t, backend), accompanierSession(), quietLogger())
	if err := board.Delete(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	stale := models.ToiletUpdates{
		Pending:    []models.ToiletRequest{req},
		InProgress: []models.ToiletRequest{},
		Completed:  []models.ToiletRequest{},
	}
	board.ApplyUpdates(stale)
	if len(board.Snapshot().Pending) != 1 {
		t.Error("stale snapshot should replace local state wholesale")
	}

	fresh := models.ToiletUpdates{
		Pending:    []models.ToiletRequest{},
		InProgress: []models.ToiletRequest{},
		Completed:  []models.ToiletRequest{},
	}
	board.ApplyUpdates(fresh)
	if board.Snapshot().Total() != 0 {
		t.Error("fresh snapshot should clear the deleted request")
	}
}

func TestToiletBoardCreate(t *testing.T) {
	backend := testutil.NewBackend(t)
	board := NewToiletBoard(newTestClient(t, backend), accompanierSession(), quietLogger())

	if err := board.Create(context.Background(), "", true, false, ""); err == nil {
		t.Error("expected error for missing team")
	}
	if backend.CountRequests("/toiletRequest/create") != 0 {
		t.Error("create sent despite missing team")
	}

	if err := board.Create(context.Background(), "team-7", true, true, "section B"); err != nil {
		t.Fatal(err)
	}
	req, _ := backend.LastRequest("/toiletRequest/create")
	var body models.ToiletRequestCreate
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatal(err)
	}
	if body.TeamID != "team-7" || !body.IsMale || !body.IsUrgent || body.Comment != "section B" {
		t.Errorf("create body = %+v", body)
	}
	if body.ChangedBy != "Cara" {
		t.Errorf("statusChangedBy = %q, want operator name", body.ChangedBy)
	}
}

func TestToiletBoardTransition(t *testing.T) {
	backend := testutil.NewBackend(t)
	board := NewToiletBoard(newTestClient(t, backend), accompanierSession(), quietLogger())

	req := testutil.Toilet(models.ToiletPending)
	if err := board.Start(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	recorded, _ := backend.LastRequest("/toiletRequest/status")
	var body struct {
		Status    int    `json:"status"`
		UpdatedBy string `json:"statusUpdatedBy"`
	}
	if err := json.Unmarshal(recorded.Body, &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != 1 {
		t.Errorf("Start encoded status %d, want 1", body.Status)
	}
	if body.UpdatedBy != "Cara" {
		t.Errorf("statusUpdatedBy = %q, want Cara", body.UpdatedBy)
	}
}

func TestToiletBoardMutationsRequireSession(t *testing.T) {
	backend := testutil.NewBackend(t)
	board := NewToiletBoard(newTestClient(t, backend), fixedSession{}, quietLogger())
	req := testutil.Toilet(models.ToiletPending)

	if err := board.Start(context.Background(), req); !errors.Is(err, ErrNotReady) {
		t.Errorf("Start: expected ErrNotReady, got %v", err)
	}
	if err := board.Create(context.Background(), "team-1", false, false, ""); !errors.Is(err, ErrNotReady) {
		t.Errorf("Create: expected ErrNotReady, got %v", err)
	}
	if err := board.Delete(context.Background(), req); !errors.Is(err, ErrNotReady) {
		t.Errorf("Delete: expected ErrNotReady, got %v", err)
	}
	if len(backend.Requests()) != 0 {
		t.Error("requests sent despite missing session")
	}
}

func TestToiletBoardTabs(t *testing.T) {
	backend := testutil.NewBackend(t)
	board := NewToiletBoard(newTestClient(t, backend), accompanierSession(), quietLogger())
	board.ApplyUpdates(models.ToiletUpdates{
		Pending:    []models.ToiletRequest{testutil.Toilet(models.ToiletPending)},
		InProgress: []models.ToiletRequest{},
		Completed:  []models.ToiletRequest{},
	})

	tabs := board.Tabs()
	if len(tabs) != 3 {
		t.Fatalf("got %d tabs, want 3", len(tabs))
	}
	if tabs[0].Label != "Pending (1)" || tabs[1].Label != "In Progress (0)" {
		t.Errorf("tabs = %v", tabs)
	}
}
