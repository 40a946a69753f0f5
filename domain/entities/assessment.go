package entities

import "time"

// EmotionSummary is the reduction of a facial timeline: the most frequent
// label, the mean confidence over events carrying it, and the percentage
// share of every observed label (entries sum to 100 after rounding).
type EmotionSummary struct {
	Dominant     string             `json:"dominant_emotion" bson:"dominant_emotion"`
	Confidence   float64            `json:"confidence" bson:"confidence"`
	Distribution map[string]float64 `json:"distribution" bson:"distribution"`
	Timeline     []FacialEvent      `json:"timeline" bson:"timeline"`
}

// SentimentScore holds polarity in [-1,1] and subjectivity in [0,1].
type SentimentScore struct {
	Polarity     float64 `json:"polarity" bson:"polarity"`
	Subjectivity float64 `json:"subjectivity" bson:"subjectivity"`
}

// HRVMetrics are heart-rate-variability measures derived from a validated
// heart-rate series of at least two samples.
type HRVMetrics struct {
	SDNN    float64 `json:"sdnn" bson:"sdnn"`
	RMSSD   float64 `json:"rmssd" bson:"rmssd"`
	PNN50   float64 `json:"pnn50" bson:"pnn50"`
	MeanHR  float64 `json:"mean_hr" bson:"mean_hr"`
	MinHR   float64 `json:"min_hr" bson:"min_hr"`
	MaxHR   float64 `json:"max_hr" bson:"max_hr"`
	HRRange float64 `json:"hr_range" bson:"hr_range"`
}

// CardiovascularResult is the output of the batch heart-rate pipeline.
type CardiovascularResult struct {
	Metrics     HRVMetrics `json:"metrics" bson:"metrics"`
	StressScore int        `json:"stress_score" bson:"stress_score"`
	StressLevel string     `json:"stress_level" bson:"stress_level"`
	Indicators  []string   `json:"stress_indicators" bson:"stress_indicators"`
	DataPoints  int        `json:"data_points" bson:"data_points"`
}

// AssessmentResult is the finished record of one screening session. Optional
// modality blocks are nil pointers when that modality produced no signal.
type AssessmentResult struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	SessionID string    `json:"session_id" bson:"session_id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	ItemScores    [9]int `json:"item_scores" bson:"item_scores"`
	Total         int    `json:"total" bson:"total"`
	Severity      string `json:"severity" bson:"severity"`
	ResponseCount int    `json:"response_count" bson:"response_count"`

	Facial        *EmotionSummary `json:"facial,omitempty" bson:"facial,omitempty"`
	VocalDominant string          `json:"vocal_dominant_emotion,omitempty" bson:"vocal_dominant_emotion,omitempty"`
	Transcript    string          `json:"transcript,omitempty" bson:"transcript,omitempty"`
	Sentiment     *SentimentScore `json:"sentiment,omitempty" bson:"sentiment,omitempty"`

	DurationSeconds int    `json:"session_duration" bson:"session_duration"`
	Recommendations string `json:"recommendations" bson:"recommendations"`

	Cardio *CardiovascularResult `json:"cardiovascular,omitempty" bson:"cardiovascular,omitempty"`
}
