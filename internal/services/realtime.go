package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AnalysisEvent is the payload broadcast over Redis and WebSocket while an
// analysis session is running.
type AnalysisEvent struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"session_id,omitempty"`
	Emotion     string    `json:"emotion,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	Movement    float64   `json:"movement,omitempty"`
	Engagement  float64   `json:"engagement,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}

// AnalysisConn is the minimal interface a WebSocket connection must satisfy.
type AnalysisConn interface {
	WriteJSON(v interface{}) error
	ReadJSON(dest interface{}) error
	Close() error
}

// syncConn serializes writes. gorilla/websocket supports at most one
// concurrent writer per connection, and fan-out goroutines would otherwise
// race the handler's own replies.
type syncConn struct {
	mu   sync.Mutex
	conn AnalysisConn
}

// NewSyncConn wraps a connection so that concurrent WriteJSON calls are
// serialized. Every connection handed to Attach must be wrapped.
func NewSyncConn(conn AnalysisConn) AnalysisConn {
	return &syncConn{conn: conn}
}

func (c *syncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *syncConn) ReadJSON(dest interface{}) error { return c.conn.ReadJSON(dest) }

func (c *syncConn) Close() error { return c.conn.Close() }

// analysisHub is a per-instance registry of connections listening on
// analysis sessions. Multiple viewers (presenter plus coach dashboards) can
// watch the same session.
type analysisHub struct {
	mu    sync.RWMutex
	conns map[string]map[AnalysisConn]struct{}
}

// RealtimeService bridges live analysis events between WebSocket clients and
// Redis, so fan-out works across instances.
type RealtimeService struct {
	rdb     *redis.Client
	hub     *analysisHub
	started sync.Once
}

func NewRealtimeService(rdb *redis.Client) *RealtimeService {
	return &RealtimeService{
		rdb: rdb,
		hub: &analysisHub{conns: make(map[string]map[AnalysisConn]struct{})},
	}
}

func analysisChannel(sessionID string) string {
	return "analysis:session:" + sessionID
}

// Attach registers a connection as a listener on a session. The returned
// function detaches it.
func (s *RealtimeService) Attach(sessionID string, conn AnalysisConn) func() {
	s.hub.mu.Lock()
	set, ok := s.hub.conns[sessionID]
	if !ok {
		set = make(map[AnalysisConn]struct{})
		s.hub.conns[sessionID] = set
	}
	set[conn] = struct{}{}
	s.hub.mu.Unlock()

	return func() {
		s.hub.mu.Lock()
		if set, ok := s.hub.conns[sessionID]; ok {
			delete(set, conn)
			if len(set) == 0 {
				delete(s.hub.conns, sessionID)
			}
		}
		s.hub.mu.Unlock()
	}
}

// fanOut sends an event to all local connections attached to its session.
func (s *RealtimeService) fanOut(event AnalysisEvent) {
	if event.SessionID == "" {
		return
	}

	s.hub.mu.RLock()
	defer s.hub.mu.RUnlock()

	for conn := range s.hub.conns[event.SessionID] {
		// Non-blocking best-effort send.
		go func(c AnalysisConn) {
			if err := c.WriteJSON(event); err != nil {
				log.Printf("error writing analysis event to websocket: %v", err)
			}
		}(conn)
	}
}

// PublishEvent publishes a live event to the session's Redis channel.
func (s *RealtimeService) PublishEvent(ctx context.Context, event AnalysisEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, analysisChannel(event.SessionID), data).Err()
}

// StartSubscriber ensures a single shared Redis listener per instance.
func (s *RealtimeService) StartSubscriber(ctx context.Context) {
	s.started.Do(func() {
		go s.runSubscriber(ctx)
	})
}

func (s *RealtimeService) runSubscriber(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := s.rdb.PSubscribe(ctx, "analysis:session:*")
			defer pubsub.Close()

			log.Println("✅ Analysis Redis subscriber started (pattern: analysis:session:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event AnalysisEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal analysis event: %v", err)
					continue
				}

				s.fanOut(event)
			}
		}()
	}
}
