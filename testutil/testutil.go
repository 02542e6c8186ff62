package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// TestToken is the bearer token the fake backend issues on login.
const TestToken = "test-token"

// Admin credentials the fake backend accepts.
const (
	AdminUser = "admin"
	AdminPass = "secret"
)

// RecordedRequest captures one request for assertions.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Backend is an in-memory contest server for tests: the REST surface the
// client talks to plus a push hub endpoint speaking the same JSON hub
// framing. Collections are plain fields; mutate them directly and push.
type Backend struct {
	t      *testing.T
	Server *httptest.Server

	mu          sync.Mutex
	envelope    bool
	Balloons    models.BalloonUpdates
	Toilet      models.ToiletUpdates
	Teams       []models.Team
	Rooms       []models.Room
	Maps        []models.ProblemBalloonMap
	Settings    []models.AdminSettings
	Active      models.AdminSettings
	failures    map[string]int
	requests    []RecordedRequest
	hubConns    []*websocket.Conn
	hubAttaches int
	rejectHub   bool
	announces   []string
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// NewBackend starts a fake backend; it shuts down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{t: t, failures: map[string]int{}}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// UseEnvelope makes every list endpoint wrap its array in the
// {"$id","$values"} envelope.
func (b *Backend) UseEnvelope(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.envelope = on
}

// FailPath forces the given API path (without the /api prefix) to return
// the given status code.
func (b *Backend) FailPath(path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = code
}

// ClearFailures removes every forced failure.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]int{}
}

// Requests returns a copy of every recorded request.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest{}, b.requests...)
}

// LastRequest returns the most recent request to the given path, if any.
func (b *Backend) LastRequest(path string) (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Path == path {
			return b.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

// CountRequests counts requests to the given path.
func (b *Backend) CountRequests(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Announcements returns announcements received over the hub.
func (b *Backend) Announcements() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.announces...)
}

// PushBalloonUpdates sends a raw balloon snapshot payload over every hub
// connection as a ReceiveBalloonUpdates invocation.
func (b *Backend) PushBalloonUpdates(payload any) {
	b.pushInvocation("ReceiveBalloonUpdates", payload)
}

// PushToiletUpdates sends a raw toilet snapshot payload.
func (b *Backend) PushToiletUpdates(payload any) {
	b.pushInvocation("ReceiveToiletRequestUpdates", payload)
}

// PushAnnouncement broadcasts a free-text announcement.
func (b *Backend) PushAnnouncement(message string) {
	b.pushInvocation("ReceiveAnnouncement", message)
}

func (b *Backend) pushInvocation(target string, payload any) {
	frame, err := json.Marshal(map[string]any{
		"type":      1,
		"target":    target,
		"arguments": []any{payload},
	})
	if err != nil {
		b.t.Fatalf("encode push payload: %v", err)
	}
	frame = append(frame, 0x1e)

	b.mu.Lock()
	conns := append([]*websocket.Conn{}, b.hubConns...)
	b.mu.Unlock()
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			b.t.Logf("push write failed: %v", err)
		}
	}
}

// HubConnections reports how many hub clients are attached.
func (b *Backend) HubConnections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hubConns)
}

// HubAttachCount reports how many hub handshakes have ever completed,
// including connections that dropped since.
func (b *Backend) HubAttachCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hubAttaches
}

// CloseHubConnections drops every attached hub client.
func (b *Backend) CloseHubConnections() {
	b.mu.Lock()
	conns := append([]*websocket.Conn{}, b.hubConns...)
	b.mu.Unlock()
	for _, conn := range conns {
		conn.Close()
	}
}

// RejectHub makes the hub endpoint refuse new connections with a 503
// instead of upgrading, without touching connections already attached.
func (b *Backend) RejectHub(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectHub = on
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/balloon/pending", b.list(func() any { return b.Balloons.Pending }))
	mux.HandleFunc("GET /api/balloon/ready-for-pickup", b.list(func() any { return b.Balloons.ReadyForPickup }))
	mux.HandleFunc("GET /api/balloon/picked-up", b.list(func() any { return b.Balloons.PickedUp }))
	mux.HandleFunc("GET /api/balloon/delivered", b.list(func() any { return b.Balloons.Delivered }))
	mux.HandleFunc("PUT /api/balloon/status", b.record(func(w http.ResponseWriter, r *http.Request) {
		var update models.BalloonStatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		status, err := models.BalloonStatusFromCode(update.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, models.BalloonTask{
			ID:              update.ID,
			Status:          status,
			StatusChangedBy: update.ChangedBy,
		})
	}))

	mux.HandleFunc("GET /api/toiletRequest/all", b.list(func() any {
		all := append([]models.ToiletRequest{}, b.Toilet.Pending...)
		all = append(all, b.Toilet.InProgress...)
		return append(all, b.Toilet.Completed...)
	}))
	mux.HandleFunc("GET /api/toiletRequest/pending", b.list(func() any { return b.Toilet.Pending }))
	mux.HandleFunc("GET /api/toiletRequest/in-progress", b.list(func() any { return b.Toilet.InProgress }))
	mux.HandleFunc("GET /api/toiletRequest/completed", b.list(func() any { return b.Toilet.Completed }))
	mux.HandleFunc("POST /api/toiletRequest/create", b.record(func(w http.ResponseWriter, r *http.Request) {
		var create models.ToiletRequestCreate
		if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		writeJSON(w, models.ToiletRequest{
			ID:        uuid.NewString(),
			TeamID:    create.TeamID,
			IsMale:    create.IsMale,
			IsUrgent:  create.IsUrgent,
			Comment:   create.Comment,
			Status:    models.ToiletPending,
			Timestamp: time.Now(),
		})
	}))
	mux.HandleFunc("POST /api/toiletRequest/status", b.record(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("POST /api/toiletRequest/delete", b.record(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("POST /api/admin/login", b.record(func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.Username != AdminUser || req.Password != AdminPass {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		writeJSON(w, models.LoginResponse{Token: TestToken})
	}))

	mux.HandleFunc("GET /api/admin/settings/getAll", b.list(func() any { return b.Settings }))
	mux.HandleFunc("GET /api/admin/settings/getActive", b.record(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		active := b.Active
		b.mu.Unlock()
		writeJSON(w, active)
	}))
	mux.HandleFunc("POST /api/admin/settings/create", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/update", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/enable", b.record(ok))

	mux.HandleFunc("GET /api/admin/settings/room/getAll", b.list(func() any { return b.Rooms }))
	mux.HandleFunc("POST /api/admin/settings/room/create", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/room/update", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/room/delete", b.record(ok))

	mux.HandleFunc("GET /api/admin/settings/team/getAll", b.list(func() any { return b.Teams }))
	mux.HandleFunc("GET /api/admin/settings/team/getById", b.record(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("teamId")
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, team := range b.Teams {
			if team.ID == id {
				writeJSON(w, team)
				return
			}
		}
		http.Error(w, "team not found", http.StatusNotFound)
	}))
	mux.HandleFunc("POST /api/admin/settings/team/createTeam", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/team/deleteTeam", b.record(ok))
	mux.HandleFunc("POST /api/admin/settings/team/updateTeamRoom", b.record(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Team{
			ID:     r.URL.Query().Get("teamId"),
			RoomID: r.URL.Query().Get("roomId"),
		})
	}))

	mux.HandleFunc("GET /api/admin/settings/ProblemBalloonMap/getAll", b.list(func() any { return b.Maps }))
	mux.HandleFunc("POST /api/admin/settings/ProblemBalloonMap/create", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/ProblemBalloonMap/update", b.record(echoBody))
	mux.HandleFunc("POST /api/admin/settings/ProblemBalloonMap/delete", b.record(ok))

	mux.HandleFunc("/api/balloonHub", b.serveHub)

	return mux
}

// record captures the request then forwards, honoring forced failures.
func (b *Backend) record(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			buf := new(strings.Builder)
			if _, err := io.Copy(buf, r.Body); err == nil {
				body = []byte(buf.String())
			}
			r.Body = io.NopCloser(strings.NewReader(buf.String()))
		}
		path := strings.TrimPrefix(r.URL.Path, "/api")

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method: r.Method,
			Path:   path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		code := b.failures[path]
		b.mu.Unlock()

		if code != 0 {
			http.Error(w, "forced failure", code)
			return
		}
		next(w, r)
	}
}

// list serves one collection, optionally enveloped.
func (b *Backend) list(collection func() any) http.HandlerFunc {
	return b.record(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		items := collection()
		enveloped := b.envelope
		b.mu.Unlock()
		if enveloped {
			writeJSON(w, map[string]any{"$id": "1", "$values": items})
			return
		}
		writeJSON(w, items)
	})
}

func (b *Backend) serveHub(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	reject := b.rejectHub
	b.mu.Unlock()
	if reject {
		http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// JSON hub handshake.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		conn.Close()
		return
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{}\x1e")); err != nil {
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	b.mu.Lock()
	b.hubConns = append(b.hubConns, conn)
	b.hubAttaches++
	b.mu.Unlock()

	// Read loop: collect SendAnnouncement invocations, drop the rest.
	go func() {
		defer func() {
			b.mu.Lock()
			for i, c := range b.hubConns {
				if c == conn {
					b.hubConns = append(b.hubConns[:i], b.hubConns[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
			conn.Close()
		}()
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			for _, frame := range strings.Split(string(payload), "\x1e") {
				if frame == "" {
					continue
				}
				var msg struct {
					Type      int               `json:"type"`
					Target    string            `json:"target"`
					Arguments []json.RawMessage `json:"arguments"`
				}
				if err := json.Unmarshal([]byte(frame), &msg); err != nil {
					continue
				}
				if msg.Type == 1 && msg.Target == "SendAnnouncement" && len(msg.Arguments) > 0 {
					var text string
					if err := json.Unmarshal(msg.Arguments[0], &text); err == nil {
						b.mu.Lock()
						b.announces = append(b.announces, text)
						b.mu.Unlock()
					}
				}
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Nothing useful to do; the client will see a truncated body.
		return
	}
}

func echoBody(w http.ResponseWriter, r *http.Request) {
	var v map[string]any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		v = map[string]any{}
	}
	if _, exists := v["id"]; !exists {
		v["id"] = uuid.NewString()
	}
	writeJSON(w, v)
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Fixtures

// Balloon builds a balloon task in the given status.
func Balloon(status models.BalloonStatus, color string) models.BalloonTask {
	return models.BalloonTask{
		ID:           uuid.NewString(),
		SubmissionID: 1,
		TeamID:       uuid.NewString(),
		TeamName:     "Team 42",
		ProblemIndex: "A",
		BalloonColor: color,
		Status:       status,
		Timestamp:    time.Now().Add(-5 * time.Minute),
		RoomName:     "Lab-01",
	}
}

// Toilet builds a toilet request in the given status.
func Toilet(status models.ToiletStatus) models.ToiletRequest {
	return models.ToiletRequest{
		ID:        uuid.NewString(),
		TeamID:    uuid.NewString(),
		TeamName:  "Team 42",
		RoomName:  "Lab-01",
		Status:    status,
		Timestamp: time.Now().Add(-2 * time.Minute),
	}
}
