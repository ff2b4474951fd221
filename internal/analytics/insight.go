package analytics

import (
	"fmt"

	"github.com/kashtan/go-lol-metrics/internal/model"
)

// Insight thresholds. Each metric has a strength bound and an improvement
// bound; a value exactly between the two yields no insight for that metric.
const (
	winRateStrong = 55.0
	winRateWeak   = 45.0
	kdaStrong     = 3.0
	kdaWeak       = 2.0
	visionStrong  = 25.0
	visionWeak    = 15.0
	cspmStrong    = 6.0
	cspmWeak      = 4.0
)

// GenerateInsights evaluates the fixed rule table against each summary and
// returns the coaching remarks that apply. Output preserves the input
// summary order; within a player the checks run in the fixed order
// win rate, KDA, vision, CS per minute, and no metric ever contributes more
// than one insight per run.
func GenerateInsights(summaries []model.PlayerSummary) []model.Insight {
	var insights []model.Insight

	add := func(s *model.PlayerSummary, typ model.InsightType, text string) {
		insights = append(insights, model.Insight{
			PlayerName:     s.Name,
			ProfileIconURL: s.ProfileIconURL,
			Type:           typ,
			Text:           text,
		})
	}

	for i := range summaries {
		s := &summaries[i]

		switch {
		case s.WinRate >= winRateStrong:
			add(s, model.InsightStrength, fmt.Sprintf("Good win rate (%s%%) - keep it up!", formatMetric(s.WinRate)))
		case s.WinRate < winRateWeak:
			add(s, model.InsightImprovement, fmt.Sprintf("Win rate needs work (%s%%)", formatMetric(s.WinRate)))
		}

		switch {
		case s.AvgKDA >= kdaStrong:
			add(s, model.InsightStrength, fmt.Sprintf("Great KDA (%s) - you stay alive well", formatMetric(s.AvgKDA)))
		case s.AvgKDA < kdaWeak:
			add(s, model.InsightImprovement, fmt.Sprintf("KDA needs work (%s) - try dying less", formatMetric(s.AvgKDA)))
		}

		switch {
		case s.AvgVision >= visionStrong:
			add(s, model.InsightStrength, "Good vision control")
		case s.AvgVision < visionWeak:
			add(s, model.InsightImprovement, "Place more wards")
		}

		switch {
		case s.AvgCSPM >= cspmStrong:
			add(s, model.InsightStrength, fmt.Sprintf("Good farming (%s CS/min)", formatMetric(s.AvgCSPM)))
		case s.AvgCSPM < cspmWeak:
			add(s, model.InsightImprovement, fmt.Sprintf("Practice last hitting (%s CS/min)", formatMetric(s.AvgCSPM)))
		}
	}

	return insights
}
