package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricSample is a single realtime observation streamed by the client while
// an analysis session is running.
type MetricSample struct {
	Emotion           string    `json:"emotion"`
	EmotionConfidence float64   `json:"emotion_confidence"`
	MovementLevel     float64   `json:"movement_level"`
	Timestamp         time.Time `json:"timestamp,omitempty"`
}

// SessionMetrics is the aggregate a client submits when completing an
// analysis session.
type SessionMetrics struct {
	DurationSeconds   float64        `json:"duration_seconds"`
	TotalFrames       int            `json:"total_frames"`
	EmotionCounts     map[string]int `json:"emotion_counts"`
	AverageMovement   float64        `json:"average_movement"`
	AverageConfidence float64        `json:"average_confidence"`
}

// AnalysisReport is the stored per-session summary document.
type AnalysisReport struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserID    string             `bson:"user_id" json:"user_id"`

	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	DurationSeconds float64   `bson:"duration_seconds" json:"duration_seconds"`
	TotalFrames     int       `bson:"total_frames" json:"total_frames"`

	DominantEmotion     string         `bson:"dominant_emotion" json:"dominant_emotion"`
	EmotionDistribution map[string]int `bson:"emotion_distribution" json:"emotion_distribution"`
	EmotionDiversity    int            `bson:"emotion_diversity" json:"emotion_diversity"`

	AverageMovement   float64 `bson:"average_movement" json:"average_movement"`
	AverageConfidence float64 `bson:"average_confidence" json:"average_confidence"`
	AverageEngagement float64 `bson:"average_engagement" json:"average_engagement"`

	EmotionTrend  string   `bson:"emotion_trend" json:"emotion_trend"`
	MovementTrend string   `bson:"movement_trend" json:"movement_trend"`
	Insights      []string `bson:"insights" json:"insights"`
	OverallScore  float64  `bson:"overall_score" json:"overall_score"`

	// SizeBytes approximates the stored payload size, used for the privacy
	// usage report.
	SizeBytes int64 `bson:"size_bytes" json:"size_bytes"`
}
