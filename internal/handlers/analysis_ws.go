package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
	"github.com/gorilla/websocket"
)

var analysisUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// AnalysisClientMessage is a frame the client streams while presenting.
type AnalysisClientMessage struct {
	Type   string              `json:"type"` // "metric", "ping"
	Sample models.MetricSample `json:"sample"`
}

// AnalysisWebSocket is the live coaching feed. The client streams metric
// samples; each one comes back on the session channel as an event enriched
// with an engagement score and realtime suggestions, fanned out to every
// listener on the session (the presenter plus any coach dashboards).
//
// Authentication uses the session token (Authorization: Bearer <token>),
// with a `token` query parameter fallback for browser WebSocket clients.
// Only the user who started the analysis session may connect.
func (h *Handler) AnalysisWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, err := h.Sessions.Validate(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	owner, err := h.Analysis.Owner(r.Context(), sessionID)
	if err != nil || owner != userID {
		http.Error(w, "no such live analysis session", http.StatusForbidden)
		return
	}

	conn, err := analysisUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// All writes (fan-out and the pong replies below) go through one
	// serialized writer.
	client := services.NewSyncConn(conn)
	detach := h.Realtime.Attach(sessionID, client)
	defer detach()

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// On disconnect the live-session TTL handles abandonment.
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		var msg AnalysisClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "ping":
			_ = client.WriteJSON(services.AnalysisEvent{Type: "pong", SessionID: sessionID})

		case "metric":
			sample := msg.Sample
			if sample.Timestamp.IsZero() {
				sample.Timestamp = time.Now().UTC()
			}

			event := services.AnalysisEvent{
				Type:        "feedback",
				SessionID:   sessionID,
				Emotion:     sample.Emotion,
				Confidence:  sample.EmotionConfidence,
				Movement:    sample.MovementLevel,
				Engagement:  services.FrameEngagement(sample),
				Suggestions: services.RealtimeSuggestions(sample),
				Timestamp:   sample.Timestamp,
			}
			_ = h.Realtime.PublishEvent(ctx, event)
		}
	}
}
