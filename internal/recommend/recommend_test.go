package recommend

import (
	"strings"
	"testing"

	"github.com/serenica/server/domain/entities"
)

func TestGenerateSeverityOnly(t *testing.T) {
	result := &entities.AssessmentResult{Total: 3}
	severity, text := Generate(result)
	if severity != "None-Minimal" {
		t.Errorf("severity = %s, want None-Minimal", severity)
	}
	if !strings.Contains(text, "minimal or no depression symptoms") {
		t.Error("Expected the minimal severity guidance")
	}
	for _, header := range []string{
		"--- Facial Expression Analysis ---",
		"--- Voice Analysis ---",
		"--- Language Analysis ---",
		"--- Cardiovascular Analysis ---",
	} {
		if strings.Contains(text, header) {
			t.Errorf("Block %q should be absent without its modality", header)
		}
	}
}

func TestGenerateWellnessTipsAlwaysLast(t *testing.T) {
	results := []*entities.AssessmentResult{
		{Total: 0},
		{
			Total:         12,
			Facial:        &entities.EmotionSummary{Dominant: "sad"},
			VocalDominant: "angry",
			Sentiment:     &entities.SentimentScore{Polarity: -0.5},
			Cardio:        &entities.CardiovascularResult{StressLevel: "High", StressScore: 8},
		},
	}

	for _, result := range results {
		_, text := Generate(result)
		idx := strings.Index(text, "--- General Wellness Tips ---")
		if idx < 0 {
			t.Fatal("Wellness tips block missing")
		}
		rest := text[idx:]
		if strings.Contains(rest, "--- Facial") || strings.Contains(rest, "--- Voice") ||
			strings.Contains(rest, "--- Language") || strings.Contains(rest, "--- Cardiovascular") {
			t.Error("Wellness tips must be the final block")
		}
	}
}

func TestGenerateFacialBlock(t *testing.T) {
	result := &entities.AssessmentResult{
		Total:  2,
		Facial: &entities.EmotionSummary{Dominant: "sad", Confidence: 0.9},
	}
	_, text := Generate(result)
	if !strings.Contains(text, "Dominant emotion: Sad") {
		t.Error("Expected the title-cased dominant emotion")
	}
	if !strings.Contains(text, "emotional distress") {
		t.Error("Distress note expected for a sad dominant emotion")
	}

	result.Facial.Dominant = "happy"
	_, text = Generate(result)
	if strings.Contains(text, "emotional distress") {
		t.Error("Distress note must not appear for happy")
	}
}

func TestGenerateVocalBlock(t *testing.T) {
	result := &entities.AssessmentResult{Total: 2, VocalDominant: "fear"}
	_, text := Generate(result)
	if !strings.Contains(text, "Vocal emotion: Fear") {
		t.Error("Expected the vocal block")
	}
	if !strings.Contains(text, "negative emotions") {
		t.Error("Negative note expected for fear")
	}

	result.VocalDominant = "neutral"
	_, text = Generate(result)
	if strings.Contains(text, "negative emotions") {
		t.Error("Negative note must not appear for neutral")
	}
}

func TestGenerateLanguageBlock(t *testing.T) {
	tests := []struct {
		polarity float64
		want     string
		absent   string
	}{
		{-0.5, "negative sentiment", "positive sentiment"},
		{0.5, "positive sentiment", "negative sentiment"},
		{0.0, "Sentiment score: 0.00", "sentiment."},
	}

	for _, tt := range tests {
		result := &entities.AssessmentResult{
			Total:     2,
			Sentiment: &entities.SentimentScore{Polarity: tt.polarity},
		}
		_, text := Generate(result)
		if !strings.Contains(text, tt.want) {
			t.Errorf("polarity %.1f: expected %q in report", tt.polarity, tt.want)
		}
		if strings.Contains(text, tt.absent) {
			t.Errorf("polarity %.1f: %q should be absent", tt.polarity, tt.absent)
		}
	}
}

func TestGenerateCardioBlock(t *testing.T) {
	result := &entities.AssessmentResult{
		Total: 2,
		Cardio: &entities.CardiovascularResult{
			StressLevel: "High",
			StressScore: 8,
			Indicators:  []string{"Elevated mean HR (95.0 BPM)"},
		},
	}
	_, text := Generate(result)
	if !strings.Contains(text, "Stress level: High (score 8)") {
		t.Error("Expected the stress summary line")
	}
	if !strings.Contains(text, "Elevated mean HR (95.0 BPM)") {
		t.Error("Indicators should be listed in the cardio block")
	}
}

func TestGenerateCrisisLines(t *testing.T) {
	// Crisis guidance needs both a Severe total and a scored self-harm item.
	severe := &entities.AssessmentResult{Total: 22}
	severe.ItemScores[8] = 2
	_, text := Generate(severe)
	if !strings.Contains(text, "crisis helpline") {
		t.Error("Crisis lines expected for Severe with self-harm scored")
	}

	severeNoSelfHarm := &entities.AssessmentResult{Total: 22}
	_, text = Generate(severeNoSelfHarm)
	if strings.Contains(text, "crisis helpline") {
		t.Error("Crisis lines must not appear without the self-harm item")
	}

	moderatelySevere := &entities.AssessmentResult{Total: 16}
	moderatelySevere.ItemScores[8] = 3
	_, text = Generate(moderatelySevere)
	if strings.Contains(text, "crisis helpline") {
		t.Error("Crisis lines are reserved for the Severe band")
	}
	if !strings.Contains(text, "seek professional help immediately") {
		t.Error("Moderately Severe still gets the urgent guidance block")
	}
}

func TestGenerateSeverityBands(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{2, "None-Minimal"},
		{7, "Mild"},
		{12, "Moderate"},
		{17, "Moderately Severe"},
		{24, "Severe"},
	}

	for _, tt := range tests {
		severity, _ := Generate(&entities.AssessmentResult{Total: tt.total})
		if severity != tt.want {
			t.Errorf("Generate total=%d severity = %s, want %s", tt.total, severity, tt.want)
		}
	}
}
