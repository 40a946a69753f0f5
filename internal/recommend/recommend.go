// Package recommend assembles the deterministic recommendation report from
// severity plus each modality's summary signal. Block order and presence
// rules are part of the contract: the severity guidance always leads and the
// general wellness tips always close the report.
package recommend

import (
	"fmt"
	"strings"

	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/internal/scoring"
)

var facialDistressEmotions = map[string]bool{
	"sad": true, "angry": true, "fear": true, "disgust": true,
}

var vocalNegativeEmotions = map[string]bool{
	"sad": true, "angry": true, "fear": true,
}

// Generate returns the severity band for the result's total score and the
// multi-block recommendation text, blocks separated by blank lines.
func Generate(result *entities.AssessmentResult) (string, string) {
	severity := scoring.ClassifySeverity(result.Total)

	blocks := [][]string{severityBlock(severity, result.ItemScores[8])}

	if result.Facial != nil && result.Facial.Dominant != "" {
		block := []string{
			"--- Facial Expression Analysis ---",
			fmt.Sprintf("Dominant emotion: %s", title(result.Facial.Dominant)),
		}
		if facialDistressEmotions[result.Facial.Dominant] {
			block = append(block, "Your facial expressions suggest emotional distress.")
		}
		blocks = append(blocks, block)
	}

	if result.VocalDominant != "" {
		block := []string{
			"--- Voice Analysis ---",
			fmt.Sprintf("Vocal emotion: %s", title(result.VocalDominant)),
		}
		if vocalNegativeEmotions[result.VocalDominant] {
			block = append(block, "Your voice patterns indicate negative emotions.")
		}
		blocks = append(blocks, block)
	}

	if result.Sentiment != nil {
		block := []string{
			"--- Language Analysis ---",
			fmt.Sprintf("Sentiment score: %.2f", result.Sentiment.Polarity),
		}
		switch {
		case result.Sentiment.Polarity < -0.3:
			block = append(block,
				"Your language shows negative sentiment.",
				"Consider talking with someone you trust about your feelings.")
		case result.Sentiment.Polarity > 0.3:
			block = append(block, "Your language shows positive sentiment.")
		}
		blocks = append(blocks, block)
	}

	if result.Cardio != nil {
		block := []string{
			"--- Cardiovascular Analysis ---",
			fmt.Sprintf("Stress level: %s (score %d)", result.Cardio.StressLevel, result.Cardio.StressScore),
		}
		block = append(block, result.Cardio.Indicators...)
		blocks = append(blocks, block)
	}

	blocks = append(blocks, []string{
		"--- General Wellness Tips ---",
		"- Deep breathing exercises: 5-10 minutes daily",
		"- Limit caffeine and alcohol",
		"- Spend time in nature/sunlight",
		"- Journal your thoughts",
		"- Set small, achievable daily goals",
	})

	lines := make([]string, 0, 32)
	for i, block := range blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	return severity, strings.Join(lines, "\n")
}

func severityBlock(severity string, selfHarmScore int) []string {
	switch severity {
	case scoring.SeverityNoneMinimal:
		return []string{
			"Your responses suggest minimal or no depression symptoms.",
			"Continue healthy habits: exercise, sleep (7-9 hours), social connections.",
			"Practice mindfulness and stress management techniques.",
		}
	case scoring.SeverityMild:
		return []string{
			"Your responses indicate mild depression symptoms.",
			"Lifestyle modifications:",
			"- Regular physical activity (30 min, 5 days/week)",
			"- Consistent sleep schedule",
			"- Balanced diet and hydration",
			"- Social engagement",
			"Monitor symptoms. Consult a professional if they persist beyond 2 weeks.",
		}
	case scoring.SeverityModerate:
		return []string{
			"Your responses suggest moderate depression.",
			"We recommend consulting a mental health professional.",
			"Treatment options:",
			"- Cognitive Behavioral Therapy (CBT)",
			"- Counseling or psychotherapy",
			"- Lifestyle modifications",
			"- Consider medication evaluation if recommended",
		}
	default:
		block := []string{
			"IMPORTANT: Your responses indicate significant depression.",
			"Please seek professional help immediately:",
			"- Contact a mental health professional",
			"- Visit your primary care physician",
		}
		if severity == scoring.SeveritySevere && selfHarmScore >= 1 {
			block = append(block,
				"",
				"You indicated thoughts of self-harm. This is serious.",
				"Please reach out immediately to someone you trust or call a crisis helpline.")
		}
		return block
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
