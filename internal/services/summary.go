package services

import (
	"fmt"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/google/uuid"
)

// engagementByEmotion maps a detected facial emotion to an engagement score.
var engagementByEmotion = map[string]float64{
	"happy":    0.9,
	"surprise": 0.8,
	"neutral":  0.6,
	"sad":      0.4,
	"angry":    0.3,
	"fear":     0.2,
	"disgust":  0.2,
}

const defaultEngagement = 0.5

// EngagementFromEmotion scores a single frame's emotion. Unknown labels get
// a middling score rather than an error.
func EngagementFromEmotion(emotion string) float64 {
	if v, ok := engagementByEmotion[emotion]; ok {
		return v
	}
	return defaultEngagement
}

// FrameEngagement blends the emotion confidence with body movement into a
// 0..1 live engagement figure.
func FrameEngagement(sample models.MetricSample) float64 {
	score := (sample.EmotionConfidence + sample.MovementLevel) / 2
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// RealtimeSuggestions turns a live frame into at most three short coaching
// prompts the client shows alongside the video. A well-balanced frame still
// gets encouragement rather than silence.
func RealtimeSuggestions(sample models.MetricSample) []string {
	var suggestions []string

	if sample.EmotionConfidence < 0.5 {
		suggestions = append(suggestions, "Face the camera for better emotion detection")
	}

	switch sample.Emotion {
	case "sad", "angry", "fear":
		suggestions = append(suggestions, "Smile more; positive expressions increase engagement")
	case "neutral":
		suggestions = append(suggestions, "Show enthusiasm; add more expression to captivate your audience")
	}

	if sample.MovementLevel < 0.1 {
		suggestions = append(suggestions, "Add gestures; use hand movements to emphasize points")
	} else if sample.MovementLevel > 0.8 {
		suggestions = append(suggestions, "Calm your movements; slow down gestures for better focus")
	}

	if FrameEngagement(sample) < 0.5 {
		suggestions = append(suggestions, "Increase energy; combine positive emotions with purposeful movement")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Great job; continue with your current presentation style",
			"Maintain consistency; your delivery signals are well balanced")
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// BuildReport aggregates a completed session's frame samples into the stored
// analysis report.
func BuildReport(userID uuid.UUID, sessionID string, samples []models.MetricSample, duration time.Duration, completedAt time.Time) *models.AnalysisReport {
	report := &models.AnalysisReport{
		SessionID:       sessionID,
		UserID:          userID.String(),
		CreatedAt:       completedAt.UTC(),
		DurationSeconds: duration.Seconds(),
		TotalFrames:     len(samples),
	}

	if len(samples) == 0 {
		report.DominantEmotion = "neutral"
		report.EmotionDistribution = map[string]int{}
		report.EmotionTrend = "stable"
		report.MovementTrend = "calm"
		report.Insights = []string{"No frames were captured during this session"}
		return report
	}

	counts := make(map[string]int, len(samples))
	var confSum, moveSum, engageSum float64
	for _, s := range samples {
		counts[s.Emotion]++
		confSum += s.EmotionConfidence
		moveSum += s.MovementLevel
		engageSum += FrameEngagement(s)
	}

	n := float64(len(samples))
	avgConf := confSum / n
	avgMove := moveSum / n

	dominant := ""
	for emotion, c := range counts {
		if dominant == "" || c > counts[dominant] || (c == counts[dominant] && emotion < dominant) {
			dominant = emotion
		}
	}

	// Raw distinct-emotion count; three distinct emotions already contribute
	// 45 of the 100 points.
	score := avgConf*40 + float64(len(counts))*15 + avgMove*200 + 45
	if score > 100 {
		score = 100
	}

	report.DominantEmotion = dominant
	report.EmotionDistribution = counts
	report.EmotionDiversity = len(counts)
	report.AverageConfidence = avgConf
	report.AverageMovement = avgMove
	report.AverageEngagement = engageSum / n
	report.OverallScore = score

	if avgConf > 0.7 {
		report.EmotionTrend = "improving"
	} else {
		report.EmotionTrend = "stable"
	}
	if avgMove > 0.2 {
		report.MovementTrend = "animated"
	} else {
		report.MovementTrend = "calm"
	}

	report.Insights = buildInsights(report)
	return report
}

func buildInsights(r *models.AnalysisReport) []string {
	var insights []string

	switch {
	case r.OverallScore >= 85:
		insights = append(insights, "Excellent presentation delivery")
	case r.OverallScore >= 70:
		insights = append(insights, "Good delivery with room to polish")
	default:
		insights = append(insights, "Keep practicing to build confidence")
	}

	switch r.DominantEmotion {
	case "happy":
		insights = append(insights, "Your positive expression keeps the audience engaged")
	case "neutral":
		insights = append(insights, "Vary your expression to hold attention")
	case "sad", "fear", "angry", "disgust":
		insights = append(insights, fmt.Sprintf("Your dominant expression was %s; aim for a warmer delivery", r.DominantEmotion))
	}

	if r.AverageMovement < 0.05 {
		insights = append(insights, "Add gestures to make your talk more dynamic")
	} else if r.AverageMovement > 0.4 {
		insights = append(insights, "Reduce excess movement to appear composed")
	}

	if r.EmotionDiversity >= 4 {
		insights = append(insights, "Good emotional range throughout the session")
	}

	return insights
}
