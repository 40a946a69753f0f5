// Package cardio is the batch heart-rate pipeline: series loading, HRV
// metrics, and stress classification. It has no shared mutable state and
// fails closed: bad input yields an absent result, never an error surfaced
// as a cardiovascular block.
package cardio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/serenica/server/domain/entities"
)

// Stress thresholds, additive. Indicators are emitted only for the stronger
// signal of each pair, matching the report contract.
const (
	meanHRHigh     = 90.0
	meanHRElevated = 80.0
	rmssdVeryLow   = 15.0
	rmssdLow       = 25.0
	sdnnLow        = 40.0
)

// LoadSeries extracts the heart-rate column from tabular rows. The column is
// found by exact header match on "heart_rate", else by case-insensitive
// substring match on "heart" or "bpm". Rows that are empty or non-numeric
// after coercion are dropped. Returns nil when no usable column or no valid
// rows remain.
func LoadSeries(header []string, rows [][]string) []float64 {
	col := -1
	for i, name := range header {
		if name == "heart_rate" {
			col = i
			break
		}
	}
	if col < 0 {
		for i, name := range header {
			lower := strings.ToLower(name)
			if strings.Contains(lower, "heart") || strings.Contains(lower, "bpm") {
				col = i
				break
			}
		}
	}
	if col < 0 {
		return nil
	}

	var rates []float64
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		rates = append(rates, v)
	}
	return rates
}

// ParseCSV reads a CSV export (header row required) and returns the
// heart-rate series per LoadSeries' discovery rule.
func ParseCSV(r io.Reader) []float64 {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil
	}
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
		rows = append(rows, row)
	}
	return LoadSeries(header, rows)
}

// ComputeHRV derives HRV metrics from a heart-rate series. Fewer than two
// samples yield nil: the cardiovascular block is absent, not zeroed.
func ComputeHRV(rates []float64) *entities.HRVMetrics {
	if len(rates) < 2 {
		return nil
	}

	rr := make([]float64, len(rates))
	for i, hr := range rates {
		rr[i] = 60000 / hr
	}
	diffs := make([]float64, len(rr)-1)
	sumSquares := 0.0
	nn50 := 0
	for i := 1; i < len(rr); i++ {
		d := rr[i] - rr[i-1]
		diffs[i-1] = d
		sumSquares += d * d
		if math.Abs(d) > 50 {
			nn50++
		}
	}

	sdnn, _ := stats.StandardDeviation(rr)
	meanHR, _ := stats.Mean(rates)
	minHR, _ := stats.Min(rates)
	maxHR, _ := stats.Max(rates)

	return &entities.HRVMetrics{
		SDNN:    sdnn,
		RMSSD:   math.Sqrt(sumSquares / float64(len(diffs))),
		PNN50:   float64(nn50) / float64(len(diffs)) * 100,
		MeanHR:  meanHR,
		MinHR:   minHR,
		MaxHR:   maxHR,
		HRRange: maxHR - minHR,
	}
}

// ClassifyStress accumulates a stress score from three independent signals
// and maps it to a level: High at 7 or more, Moderate at 4 or more, else Low.
func ClassifyStress(m entities.HRVMetrics) (score int, level string, indicators []string) {
	if m.MeanHR > meanHRHigh {
		score += 3
		indicators = append(indicators, fmt.Sprintf("Elevated mean HR (%.1f BPM)", m.MeanHR))
	} else if m.MeanHR > meanHRElevated {
		score += 2
	}

	if m.RMSSD < rmssdVeryLow {
		score += 3
		indicators = append(indicators, fmt.Sprintf("Very low HRV (RMSSD: %.1f ms)", m.RMSSD))
	} else if m.RMSSD < rmssdLow {
		score += 2
	}

	if m.SDNN < sdnnLow {
		score += 2
		indicators = append(indicators, fmt.Sprintf("Low SDNN (%.1f ms)", m.SDNN))
	}

	switch {
	case score >= 7:
		level = "High"
	case score >= 4:
		level = "Moderate"
	default:
		level = "Low"
	}
	return score, level, indicators
}

// Analyze runs the full pipeline over a CSV record. Any data problem yields
// nil rather than an error.
func Analyze(r io.Reader) *entities.CardiovascularResult {
	rates := ParseCSV(r)
	if len(rates) == 0 {
		return nil
	}
	metrics := ComputeHRV(rates)
	if metrics == nil {
		return nil
	}
	score, level, indicators := ClassifyStress(*metrics)
	return &entities.CardiovascularResult{
		Metrics:     *metrics,
		StressScore: score,
		StressLevel: level,
		Indicators:  indicators,
		DataPoints:  len(rates),
	}
}
