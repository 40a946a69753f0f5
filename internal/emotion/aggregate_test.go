package emotion

import (
	"math"
	"reflect"
	"testing"

	"github.com/serenica/server/domain/entities"
)

func facialTimeline(labels ...string) []entities.FacialEvent {
	events := make([]entities.FacialEvent, len(labels))
	for i, label := range labels {
		events[i] = entities.FacialEvent{Emotion: label, Confidence: 0.8, Timestamp: int64(i)}
	}
	return events
}

func vocalTimeline(labels ...string) []entities.VocalEvent {
	events := make([]entities.VocalEvent, len(labels))
	for i, label := range labels {
		events[i] = entities.VocalEvent{Emotion: label, Timestamp: int64(i)}
	}
	return events
}

func TestAggregateFacialEmpty(t *testing.T) {
	if got := AggregateFacial(nil); got != nil {
		t.Errorf("Expected nil summary for empty timeline, got %+v", got)
	}
}

func TestAggregateFacialDominant(t *testing.T) {
	summary := AggregateFacial(facialTimeline("sad", "sad", "happy", "neutral"))
	if summary == nil {
		t.Fatal("Expected a summary")
	}
	if summary.Dominant != "sad" {
		t.Errorf("Dominant = %s, want sad", summary.Dominant)
	}
	if summary.Distribution["sad"] != 50.0 {
		t.Errorf("Distribution[sad] = %.1f, want 50.0", summary.Distribution["sad"])
	}
}

func TestAggregateFacialConfidenceTieBreak(t *testing.T) {
	timeline := []entities.FacialEvent{
		{Emotion: "happy", Confidence: 0.5, Timestamp: 1},
		{Emotion: "sad", Confidence: 0.9, Timestamp: 2},
	}
	summary := AggregateFacial(timeline)
	if summary.Dominant != "sad" {
		t.Errorf("Equal counts should break on summed confidence, got %s", summary.Dominant)
	}
	if summary.Confidence != 0.9 {
		t.Errorf("Confidence = %.2f, want 0.9", summary.Confidence)
	}
}

func TestAggregateFacialFirstObservedTieBreak(t *testing.T) {
	timeline := []entities.FacialEvent{
		{Emotion: "neutral", Confidence: 0.7, Timestamp: 1},
		{Emotion: "happy", Confidence: 0.7, Timestamp: 2},
	}
	if summary := AggregateFacial(timeline); summary.Dominant != "neutral" {
		t.Errorf("Full ties should keep the first-observed label, got %s", summary.Dominant)
	}
}

func TestAggregateFacialDistributionSumsToHundred(t *testing.T) {
	// Three labels over seven events force rounding remainders.
	summary := AggregateFacial(facialTimeline("sad", "sad", "sad", "happy", "happy", "neutral", "fear"))
	sum := 0.0
	for _, pct := range summary.Distribution {
		sum += pct
	}
	if math.Abs(sum-100.0) > 1e-9 {
		t.Errorf("Distribution sums to %.4f, want 100", sum)
	}
}

func TestAggregateFacialMeanConfidence(t *testing.T) {
	timeline := []entities.FacialEvent{
		{Emotion: "sad", Confidence: 0.6, Timestamp: 1},
		{Emotion: "sad", Confidence: 0.8, Timestamp: 2},
		{Emotion: "happy", Confidence: 0.99, Timestamp: 3},
	}
	summary := AggregateFacial(timeline)
	if math.Abs(summary.Confidence-0.7) > 1e-9 {
		t.Errorf("Confidence = %.4f, want mean 0.7 over dominant events", summary.Confidence)
	}
}

func TestAggregateFacialPure(t *testing.T) {
	timeline := facialTimeline("sad", "happy", "sad")
	first := AggregateFacial(timeline)
	second := AggregateFacial(timeline)
	if !reflect.DeepEqual(first, second) {
		t.Error("Aggregation should be deterministic for the same timeline")
	}

	// The returned timeline is a copy; mutating it must not leak back.
	first.Timeline[0].Emotion = "angry"
	if timeline[0].Emotion != "sad" {
		t.Error("Summary timeline should be independent of the input")
	}
}

func TestAggregateVocal(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{"empty yields neutral", nil, "neutral"},
		{"mode wins", []string{"sad", "sad", "happy"}, "sad"},
		{"tie keeps first observed", []string{"happy", "sad"}, "happy"},
		{"single event", []string{"angry"}, "angry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateVocal(vocalTimeline(tt.labels...)); got != tt.want {
				t.Errorf("AggregateVocal(%v) = %s, want %s", tt.labels, got, tt.want)
			}
		})
	}
}
