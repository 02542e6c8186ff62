package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// Reconnect schedule: delay before each successive attempt. After the
// schedule is exhausted the hub gives up until Connect is called again.
var reconnectDelays = []time.Duration{
	0,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
}

const maxReconnectAttempts = 5

// Frames are JSON messages separated by the record separator byte.
const recordSeparator = 0x1e

// Hub message types (JSON hub protocol subset the backend speaks).
const (
	msgInvocation = 1
	msgPing       = 6
	msgClose      = 7
)

var ErrNotConnected = errors.New("hub: not connected")

// BalloonHandler receives a categorized balloon snapshot.
type BalloonHandler func(models.BalloonUpdates)

// ToiletHandler receives a categorized toilet-request snapshot.
type ToiletHandler func(models.ToiletUpdates)

// AnnouncementHandler receives a free-text broadcast.
type AnnouncementHandler func(string)

// Hub maintains one persistent connection to the backend's push endpoint
// and fans incoming snapshots out to registered handlers. Snapshots
// replace state wholesale; the hub offers no ordering or delivery
// guarantees beyond the transport's.
type Hub struct {
	endpoint string
	dialer   *websocket.Dialer
	log      *slog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	connected  bool
	connecting bool            // a Connect call is mid-dial; later calls are no-ops
	gen        int             // bumped on every teardown so stale read loops exit quietly

	nextID               int
	balloonHandlers      map[int]BalloonHandler
	toiletHandlers       map[int]ToiletHandler
	announcementHandlers map[int]AnnouncementHandler
}

// New builds a hub for the backend at baseURL. The push endpoint is
// <base>/api/balloonHub with the scheme rewritten to websocket.
func New(baseURL string, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/api/balloonHub"
	endpoint = strings.Replace(endpoint, "https://", "wss://", 1)
	endpoint = strings.Replace(endpoint, "http://", "ws://", 1)
	return &Hub{
		endpoint:             endpoint,
		dialer:               &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:                  log,
		balloonHandlers:      map[int]BalloonHandler{},
		toiletHandlers:       map[int]ToiletHandler{},
		announcementHandlers: map[int]AnnouncementHandler{},
	}
}

// Connect establishes the connection and starts the read loop. Calling it
// while connected, or while another Connect is still dialing, is a
// no-op. The initial dial runs the same retry schedule as reconnection;
// if every attempt fails the hub stays down and the error is returned.
func (h *Hub) Connect(ctx context.Context) error {
	h.mu.Lock()
	if h.connected || h.connecting {
		h.mu.Unlock()
		return nil
	}
	h.connecting = true
	gen := h.gen
	h.mu.Unlock()

	conn, err := h.dialWithRetry(ctx)

	h.mu.Lock()
	h.connecting = false
	if err != nil {
		h.mu.Unlock()
		return err
	}
	if h.gen != gen {
		// Disconnect raced us; drop the fresh connection.
		h.mu.Unlock()
		conn.Close()
		return ErrNotConnected
	}
	h.conn = conn
	h.connected = true
	readGen := h.gen
	h.mu.Unlock()

	go h.readLoop(ctx, conn, readGen)
	return nil
}

// Disconnect tears the connection down and clears every registered
// handler. Handlers must be re-registered after a fresh Connect.
func (h *Hub) Disconnect() {
	h.mu.Lock()
	conn := h.conn
	h.teardownLocked()
	h.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// IsConnected reports whether the connection is currently up.
func (h *Hub) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

// OnBalloonUpdates registers a handler for balloon snapshots. The
// returned function unregisters it.
func (h *Hub) OnBalloonUpdates(handler BalloonHandler) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.balloonHandlers[id] = handler
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.balloonHandlers, id)
	}
}

// OnToiletUpdates registers a handler for toilet-request snapshots.
func (h *Hub) OnToiletUpdates(handler ToiletHandler) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.toiletHandlers[id] = handler
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.toiletHandlers, id)
	}
}

// OnAnnouncement registers a handler for broadcast announcements.
func (h *Hub) OnAnnouncement(handler AnnouncementHandler) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.announcementHandlers[id] = handler
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.announcementHandlers, id)
	}
}

// SendAnnouncement broadcasts a one-shot message through the open
// connection. Fails immediately when the connection is down.
func (h *Hub) SendAnnouncement(message string) error {
	h.mu.Lock()
	conn := h.conn
	up := h.connected
	h.mu.Unlock()
	if !up || conn == nil {
		return ErrNotConnected
	}

	frame, err := json.Marshal(map[string]any{
		"type":         msgInvocation,
		"invocationId": uuid.NewString(),
		"target":       "SendAnnouncement",
		"arguments":    []any{message},
	})
	if err != nil {
		return fmt.Errorf("hub: encode announcement: %w", err)
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, append(frame, recordSeparator)); err != nil {
		return fmt.Errorf("hub: send announcement: %w", err)
	}
	return nil
}

// teardownLocked resets connection state and clears handlers. Callers
// hold h.mu and close the connection themselves.
func (h *Hub) teardownLocked() {
	h.conn = nil
	h.connected = false
	h.gen++
	h.balloonHandlers = map[int]BalloonHandler{}
	h.toiletHandlers = map[int]ToiletHandler{}
	h.announcementHandlers = map[int]AnnouncementHandler{}
}

// dialWithRetry walks the reconnect schedule once. It returns the first
// successfully handshaken connection, or the last error after the
// schedule is exhausted.
func (h *Hub) dialWithRetry(ctx context.Context) (*websocket.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < maxReconnectAttempts; attempt++ {
		delay := reconnectDelays[attempt]
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		conn, err := h.dialOnce(ctx)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		h.log.Warn("hub connect attempt failed", "attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("hub: giving up after %d attempts: %w", maxReconnectAttempts, lastErr)
}

func (h *Hub) dialOnce(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := h.dialer.DialContext(ctx, h.endpoint, http.Header{})
	if err != nil {
		return nil, err
	}

	// JSON hub handshake, then the server's (possibly empty) reply.
	handshake := append([]byte(`{"protocol":"json","version":1}`), recordSeparator)
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, handshake); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake write: %w", err)
	}
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, reply, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake read: %w", err)
	}
	var ack struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(trimFrame(reply), &ack); err == nil && ack.Error != "" {
		conn.Close()
		return nil, fmt.Errorf("handshake rejected: %s", ack.Error)
	}
	conn.SetReadDeadline(time.Time{})
	return conn, nil
}

// readLoop pumps frames until the connection drops, then walks the
// reconnect schedule. After the schedule is exhausted the hub is torn
// down silently; no further events surface until Connect is called
// again.
func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, gen int) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.mu.Lock()
			stale := h.gen != gen
			h.mu.Unlock()
			if stale || ctx.Err() != nil {
				return
			}
			h.log.Warn("hub connection lost", "error", err)

			next, dialErr := h.dialWithRetry(ctx)
			if dialErr != nil {
				h.log.Warn("hub reconnect exhausted", "error", dialErr)
				h.mu.Lock()
				if h.gen == gen {
					h.teardownLocked()
				}
				h.mu.Unlock()
				return
			}

			h.mu.Lock()
			if h.gen != gen {
				h.mu.Unlock()
				next.Close()
				return
			}
			h.conn = next
			h.mu.Unlock()
			conn = next
			continue
		}

		for _, frame := range splitFrames(payload) {
			h.handleFrame(conn, frame)
		}
	}
}

func (h *Hub) handleFrame(conn *websocket.Conn, frame []byte) {
	var msg struct {
		Type      int               `json:"type"`
		Target    string            `json:"target"`
		Arguments []json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(frame, &msg); err != nil {
		h.log.Warn("hub frame decode failed", "error", err)
		return
	}

	switch msg.Type {
	case msgInvocation:
		h.dispatch(msg.Target, msg.Arguments)
	case msgPing:
		pong := append([]byte(`{"type":6}`), recordSeparator)
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		_ = conn.WriteMessage(websocket.TextMessage, pong)
	case msgClose:
		// Server-initiated close; the read loop will observe the drop.
		h.log.Info("hub close message received")
	}
}

func (h *Hub) dispatch(target string, args []json.RawMessage) {
	var first json.RawMessage
	if len(args) > 0 {
		first = args[0]
	}

	switch target {
	case "ReceiveBalloonUpdates", "BalloonStatusChanged":
		updates := NormalizeBalloonUpdates(first)
		for _, handler := range h.snapshotBalloonHandlers() {
			handler(updates)
		}
	case "ReceiveToiletRequestUpdates":
		updates := NormalizeToiletUpdates(first)
		for _, handler := range h.snapshotToiletHandlers() {
			handler(updates)
		}
	case "ReceiveAnnouncement":
		message := decodeAnnouncement(first)
		for _, handler := range h.snapshotAnnouncementHandlers() {
			handler(message)
		}
	default:
		h.log.Debug("hub invocation ignored", "target", target)
	}
}

func (h *Hub) snapshotBalloonHandlers() []BalloonHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]BalloonHandler, 0, len(h.balloonHandlers))
	for _, handler := range h.balloonHandlers {
		out = append(out, handler)
	}
	return out
}

func (h *Hub) snapshotToiletHandlers() []ToiletHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ToiletHandler, 0, len(h.toiletHandlers))
	for _, handler := range h.toiletHandlers {
		out = append(out, handler)
	}
	return out
}

func (h *Hub) snapshotAnnouncementHandlers() []AnnouncementHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]AnnouncementHandler, 0, len(h.announcementHandlers))
	for _, handler := range h.announcementHandlers {
		out = append(out, handler)
	}
	return out
}

// decodeAnnouncement accepts either a bare string argument or a
// {"message": ...} object.
func decodeAnnouncement(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj models.AnnouncementMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return string(raw)
}

func splitFrames(payload []byte) [][]byte {
	var frames [][]byte
	for _, part := range strings.Split(string(payload), string(rune(recordSeparator))) {
		if part == "" {
			continue
		}
		frames = append(frames, []byte(part))
	}
	return frames
}

func trimFrame(payload []byte) []byte {
	return []byte(strings.TrimRight(string(payload), string(rune(recordSeparator))))
}
