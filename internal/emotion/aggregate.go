// Package emotion reduces per-modality classification timelines to summary
// signals. Aggregation is order-independent and tolerates duplicate events.
package emotion

import (
	"math"

	"github.com/serenica/server/domain/entities"
)

// AggregateFacial reduces a facial timeline to its dominant emotion, the mean
// confidence over events carrying that emotion, and the percentage share of
// every observed label. Ties on frequency break on higher summed confidence,
// then on the first-observed label. Returns nil for an empty timeline.
func AggregateFacial(timeline []entities.FacialEvent) *entities.EmotionSummary {
	if len(timeline) == 0 {
		return nil
	}

	counts := make(map[string]int)
	confidenceSums := make(map[string]float64)
	var order []string
	for _, ev := range timeline {
		if counts[ev.Emotion] == 0 {
			order = append(order, ev.Emotion)
		}
		counts[ev.Emotion]++
		confidenceSums[ev.Emotion] += ev.Confidence
	}

	dominant := order[0]
	for _, label := range order[1:] {
		switch {
		case counts[label] > counts[dominant]:
			dominant = label
		case counts[label] == counts[dominant] && confidenceSums[label] > confidenceSums[dominant]:
			dominant = label
		}
	}

	total := float64(len(timeline))
	distribution := make(map[string]float64, len(counts))
	sum := 0.0
	for _, label := range order {
		pct := math.Round(float64(counts[label])/total*1000) / 10
		distribution[label] = pct
		sum += pct
	}
	// Rounding remainder lands on the dominant label so shares sum to 100.
	distribution[dominant] = math.Round((distribution[dominant]+100-sum)*10) / 10

	events := make([]entities.FacialEvent, len(timeline))
	copy(events, timeline)

	return &entities.EmotionSummary{
		Dominant:     dominant,
		Confidence:   confidenceSums[dominant] / float64(counts[dominant]),
		Distribution: distribution,
		Timeline:     events,
	}
}

// AggregateVocal reduces a vocal timeline to its most frequent label, ties
// broken by the first-observed label. An empty timeline yields "neutral".
func AggregateVocal(timeline []entities.VocalEvent) string {
	if len(timeline) == 0 {
		return "neutral"
	}

	counts := make(map[string]int)
	var order []string
	for _, ev := range timeline {
		if counts[ev.Emotion] == 0 {
			order = append(order, ev.Emotion)
		}
		counts[ev.Emotion]++
	}

	dominant := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}
	return dominant
}
