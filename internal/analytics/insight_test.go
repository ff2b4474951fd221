package analytics

import (
	"testing"

	"github.com/kashtan/go-lol-metrics/internal/model"
)

func summaryWith(winRate, kda, vision, cspm float64) model.PlayerSummary {
	return model.PlayerSummary{
		Name:      "Alice",
		WinRate:   winRate,
		AvgKDA:    kda,
		AvgVision: vision,
		AvgCSPM:   cspm,
	}
}

func countTypes(insights []model.Insight) (strengths, improvements int) {
	for _, in := range insights {
		switch in.Type {
		case model.InsightStrength:
			strengths++
		case model.InsightImprovement:
			improvements++
		}
	}
	return
}

func TestGenerateInsights_AllStrengths(t *testing.T) {
	insights := GenerateInsights([]model.PlayerSummary{summaryWith(60.0, 3.5, 30, 7.0)})

	strengths, improvements := countTypes(insights)
	if strengths != 4 || improvements != 0 {
		t.Fatalf("want 4 strengths / 0 improvements, got %d/%d", strengths, improvements)
	}

	wantTexts := []string{
		"Good win rate (60.0%) - keep it up!",
		"Great KDA (3.5) - you stay alive well",
		"Good vision control",
		"Good farming (7.0 CS/min)",
	}
	for i, want := range wantTexts {
		if insights[i].Text != want {
			t.Errorf("insight %d: want %q, got %q", i, want, insights[i].Text)
		}
	}
}

func TestGenerateInsights_AllImprovements(t *testing.T) {
	insights := GenerateInsights([]model.PlayerSummary{summaryWith(40.0, 1.5, 10, 3.0)})

	strengths, improvements := countTypes(insights)
	if strengths != 0 || improvements != 4 {
		t.Fatalf("want 0 strengths / 4 improvements, got %d/%d", strengths, improvements)
	}

	wantTexts := []string{
		"Win rate needs work (40.0%)",
		"KDA needs work (1.5) - try dying less",
		"Place more wards",
		"Practice last hitting (3.0 CS/min)",
	}
	for i, want := range wantTexts {
		if insights[i].Text != want {
			t.Errorf("insight %d: want %q, got %q", i, want, insights[i].Text)
		}
	}
}

func TestGenerateInsights_MiddleBandYieldsNothing(t *testing.T) {
	insights := GenerateInsights([]model.PlayerSummary{summaryWith(50.0, 2.5, 20, 5.0)})
	if len(insights) != 0 {
		t.Errorf("mid-band summary should yield no insights, got %d: %+v", len(insights), insights)
	}
}

func TestGenerateInsights_Boundaries(t *testing.T) {
	cases := []struct {
		name    string
		summary model.PlayerSummary
		want    int // expected insight count
		typ     model.InsightType
	}{
		{"win rate at 55 is a strength", summaryWith(55.0, 2.5, 20, 5.0), 1, model.InsightStrength},
		{"win rate at 45 yields nothing", summaryWith(45.0, 2.5, 20, 5.0), 0, ""},
		{"win rate below 45 needs work", summaryWith(44.9, 2.5, 20, 5.0), 1, model.InsightImprovement},
		{"kda at 3.0 is a strength", summaryWith(50.0, 3.0, 20, 5.0), 1, model.InsightStrength},
		{"kda at 2.0 yields nothing", summaryWith(50.0, 2.0, 20, 5.0), 0, ""},
		{"vision at 25 is a strength", summaryWith(50.0, 2.5, 25, 5.0), 1, model.InsightStrength},
		{"vision at 15 yields nothing", summaryWith(50.0, 2.5, 15, 5.0), 0, ""},
		{"cspm at 6.0 is a strength", summaryWith(50.0, 2.5, 20, 6.0), 1, model.InsightStrength},
		{"cspm at 4.0 yields nothing", summaryWith(50.0, 2.5, 20, 4.0), 0, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			insights := GenerateInsights([]model.PlayerSummary{c.summary})
			if len(insights) != c.want {
				t.Fatalf("want %d insight(s), got %d: %+v", c.want, len(insights), insights)
			}
			if c.want == 1 && insights[0].Type != c.typ {
				t.Errorf("want type %s, got %s", c.typ, insights[0].Type)
			}
		})
	}
}

func TestGenerateInsights_OrderPreserved(t *testing.T) {
	first := summaryWith(60.0, 1.5, 20, 5.0) // win-rate strength, then KDA improvement
	first.Name = "First"
	second := summaryWith(40.0, 2.5, 20, 5.0)
	second.Name = "Second"

	insights := GenerateInsights([]model.PlayerSummary{first, second})
	if len(insights) != 3 {
		t.Fatalf("want 3 insights, got %d", len(insights))
	}
	if insights[0].PlayerName != "First" || insights[0].Type != model.InsightStrength {
		t.Errorf("insight 0: got %+v", insights[0])
	}
	if insights[1].PlayerName != "First" || insights[1].Type != model.InsightImprovement {
		t.Errorf("insight 1: got %+v", insights[1])
	}
	if insights[2].PlayerName != "Second" {
		t.Errorf("insight 2: got %+v", insights[2])
	}
}
