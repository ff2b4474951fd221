package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kashtan/go-lol-metrics/internal/model"
)

// DefaultThreshold is the z-score cutoff used when no override is given.
const DefaultThreshold = 2.5

// minHistory is the smallest match collection worth thresholding against.
// Below this, standard-deviation estimates are too noisy to trust.
const minHistory = 5

// AnomalyVerdict is the classification of one match against its owner's
// own per-metric baselines. Verdicts are produced for every match of an
// eligible player, including clean ones, so that persisting a run always
// overwrites whatever anomaly state a previous run left behind.
type AnomalyVerdict struct {
	PlayerID  int64
	MatchID   string
	IsAnomaly bool
	Reason    string
}

// baseline holds the sample mean and sample standard deviation of one
// metric series across a single player's history.
type baseline struct {
	mean float64
	std  float64
}

// DetectAnomalies classifies every match of every player with at least
// minHistory stored matches. Baselines are always per-player; no global
// baseline across players is ever used. Players with a shorter history are
// skipped entirely and contribute no verdicts.
//
// Two passes per player: pass 1 computes the five metric baselines, pass 2
// re-scans every match and classifies it against them.
func DetectAnomalies(players []model.Player, lookup MatchLookup, threshold float64) ([]AnomalyVerdict, error) {
	var verdicts []AnomalyVerdict

	for i := range players {
		p := &players[i]
		matches, err := lookup(p.ID)
		if err != nil {
			return nil, fmt.Errorf("load matches for %s: %w", p.Name, err)
		}
		if len(matches) < minHistory {
			continue
		}

		kda := sampleBaseline(series(matches, func(m *model.MatchRecord) float64 { return m.KDA }))
		deaths := sampleBaseline(series(matches, func(m *model.MatchRecord) float64 { return float64(m.Deaths) }))
		dpm := sampleBaseline(series(matches, func(m *model.MatchRecord) float64 { return m.DamagePerMin }))
		gpm := sampleBaseline(series(matches, func(m *model.MatchRecord) float64 { return m.GoldPerMin }))
		dur := sampleBaseline(series(matches, func(m *model.MatchRecord) float64 { return float64(m.GameDuration) }))

		for j := range matches {
			m := &matches[j]
			reasons := classifyMatch(m, kda, deaths, dpm, gpm, dur, threshold)
			verdicts = append(verdicts, AnomalyVerdict{
				PlayerID:  m.PlayerID,
				MatchID:   m.MatchID,
				IsAnomaly: len(reasons) > 0,
				Reason:    strings.Join(reasons, "; "),
			})
		}
	}

	return verdicts, nil
}

// classifyMatch evaluates the five metric checks for one match and returns
// the reasons that fired, in fixed metric order. A metric whose baseline has
// zero variance contributes no reason for any match: the z-score is
// undefined there, and a perfectly consistent player is not anomalous.
func classifyMatch(m *model.MatchRecord, kda, deaths, dpm, gpm, dur baseline, threshold float64) []string {
	var reasons []string

	// KDA: two-sided.
	if kda.std > 0 {
		if z := math.Abs(m.KDA-kda.mean) / kda.std; z > threshold {
			if m.KDA > kda.mean {
				reasons = append(reasons, fmt.Sprintf("Very high KDA (%s)", formatMetric(m.KDA)))
			} else {
				reasons = append(reasons, fmt.Sprintf("Very low KDA (%s)", formatMetric(m.KDA)))
			}
		}
	}

	// Deaths: one-sided. Only unusually many deaths are ever reported;
	// unusually few deaths never produce a reason.
	if deaths.std > 0 {
		if z := (float64(m.Deaths) - deaths.mean) / deaths.std; z > threshold {
			reasons = append(reasons, fmt.Sprintf("Many deaths (%d)", m.Deaths))
		}
	}

	// Damage per minute: two-sided.
	if dpm.std > 0 {
		if z := math.Abs(m.DamagePerMin-dpm.mean) / dpm.std; z > threshold {
			if m.DamagePerMin > dpm.mean {
				reasons = append(reasons, fmt.Sprintf("Very high damage (%d DPM)", int(m.DamagePerMin)))
			} else {
				reasons = append(reasons, fmt.Sprintf("Very low damage (%d DPM)", int(m.DamagePerMin)))
			}
		}
	}

	// Gold per minute: two-sided.
	if gpm.std > 0 {
		if z := math.Abs(m.GoldPerMin-gpm.mean) / gpm.std; z > threshold {
			if m.GoldPerMin > gpm.mean {
				reasons = append(reasons, fmt.Sprintf("Very high gold (%d GPM)", int(m.GoldPerMin)))
			} else {
				reasons = append(reasons, fmt.Sprintf("Very low gold (%d GPM)", int(m.GoldPerMin)))
			}
		}
	}

	// Game duration: two-sided, reported in whole minutes.
	if dur.std > 0 {
		if z := math.Abs(float64(m.GameDuration)-dur.mean) / dur.std; z > threshold {
			mins := m.DurationMinutes()
			if float64(m.GameDuration) < dur.mean {
				reasons = append(reasons, fmt.Sprintf("Very short game (%d min)", mins))
			} else {
				reasons = append(reasons, fmt.Sprintf("Very long game (%d min)", mins))
			}
		}
	}

	return reasons
}

// sampleBaseline computes the mean and the sample standard deviation
// (n-1 denominator) of a series. With fewer than two values the deviation
// is undefined and treated as zero, which excludes the metric from checks.
func sampleBaseline(values []float64) baseline {
	n := len(values)
	if n == 0 {
		return baseline{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	if n < 2 {
		return baseline{mean: mean}
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return baseline{
		mean: mean,
		std:  math.Sqrt(sq / float64(n-1)),
	}
}

func series(matches []model.MatchRecord, metric func(*model.MatchRecord) float64) []float64 {
	out := make([]float64, len(matches))
	for i := range matches {
		out[i] = metric(&matches[i])
	}
	return out
}

// formatMetric renders a float with minimal digits, except that whole
// numbers keep one decimal: a KDA of 3.75 reads "3.75", 3.50 reads "3.5",
// and 4.00 reads "4.0".
func formatMetric(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
