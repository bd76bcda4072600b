package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/stride-backend/internal/types"
)

const scoringSystemPrompt = `You are a recovery and training-readiness analyst for endurance athletes. You combine heart-rate variability, resting heart rate, sleep, recent training strain and weather into a single readiness judgment. Be direct and practical.`

const briefingSystemPrompt = `You write short spoken-word morning briefings for runners. Plain spoken text only: no markdown, no headings, no lists, no stage directions.`

// buildScoringPrompt lays out every gathered number plus the scoring rules
// and the exact JSON shape the response must take.
func buildScoringPrompt(bundle *CheckInContext) (string, string) {
	var b strings.Builder

	b.WriteString("Assess today's training readiness for ")
	if bundle.Athlete != nil && bundle.Athlete.DisplayName != "" {
		b.WriteString(bundle.Athlete.DisplayName)
	} else {
		b.WriteString("the athlete")
	}
	b.WriteString(".\n\nToday's biometrics:\n")

	if bundle.Today != nil {
		if bundle.Today.HRVMs != nil {
			fmt.Fprintf(&b, "- HRV: %.1f ms (baseline average over the prior %d days: %.1f ms)\n", *bundle.Today.HRVMs, len(bundle.Baseline), bundle.BaselineHRV)
			if bundle.BaselineHRV > 0 {
				drop := (bundle.BaselineHRV - *bundle.Today.HRVMs) / bundle.BaselineHRV * 100
				fmt.Fprintf(&b, "- HRV change vs baseline: %.1f%% drop\n", drop)
			}
		} else {
			fmt.Fprintf(&b, "- HRV: not recorded (baseline average: %.1f ms)\n", bundle.BaselineHRV)
		}
		if bundle.Today.RestingHR != nil {
			fmt.Fprintf(&b, "- Resting heart rate: %d bpm\n", *bundle.Today.RestingHR)
		}
		if bundle.Today.SleepSeconds != nil {
			fmt.Fprintf(&b, "- Sleep: %.1f hours\n", float64(*bundle.Today.SleepSeconds)/3600)
		}
		fmt.Fprintf(&b, "- Data source: %s\n", bundle.Today.Source)
	} else {
		b.WriteString("- No biometric sample recorded today.\n")
	}

	fmt.Fprintf(&b, "\nTraining load, last %d days:\n", activityWindowDays)
	fmt.Fprintf(&b, "- Activities: %d\n", len(bundle.Activities))
	fmt.Fprintf(&b, "- Accumulated strain: %.0f\n", bundle.TotalStrain)
	for i, a := range bundle.Activities {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s (%s, strain %.0f)\n", a.Name, a.SportType, a.SufferScore)
	}

	if bundle.CurrentWeather != nil {
		fmt.Fprintf(&b, "\nCurrent weather: %s, %.1f C, wind %.0f km/h\n",
			bundle.CurrentWeather.Description, bundle.CurrentWeather.TemperatureC, bundle.CurrentWeather.WindSpeedKmh)
	}
	if bundle.LastRunWeather != nil {
		fmt.Fprintf(&b, "Weather during the last run: %s, %.1f C, wind %.0f km/h\n",
			bundle.LastRunWeather.Description, bundle.LastRunWeather.TemperatureC, bundle.LastRunWeather.WindSpeedKmh)
	}

	b.WriteString(`
Scoring rules:
- An HRV drop greater than 10% relative to baseline is a warning signal.
- An elevated resting heart rate is a warning signal.
- Accumulated fatigue from training strain should lower the score.

Respond with a single well-formed JSON object and nothing else, exactly this shape:
{"score": <integer 0-100>, "risk_level": "<low|moderate|high|critical>", "summary": "<one or two sentences>", "recommendation": "<one or two sentences>"}`)

	return scoringSystemPrompt, b.String()
}

// buildBriefingPrompt asks for a ~45-60 second spoken script that restates
// the already-persisted assessment so the narrative never contradicts the
// number on the dashboard.
func buildBriefingPrompt(bundle *CheckInContext, assessment *types.ReadinessAssessment) (string, string) {
	var b strings.Builder

	name := "there"
	if bundle.Athlete != nil && bundle.Athlete.DisplayName != "" {
		name = bundle.Athlete.DisplayName
	}

	fmt.Fprintf(&b, "Write a 45-60 second spoken morning briefing for %s.\n\n", name)
	fmt.Fprintf(&b, "Today's readiness assessment (state these as given, do not re-derive):\n")
	fmt.Fprintf(&b, "- Readiness score: %d out of 100\n", assessment.Score)
	fmt.Fprintf(&b, "- Risk level: %s\n", assessment.RiskLevel)
	fmt.Fprintf(&b, "- Summary: %s\n", assessment.Summary)
	fmt.Fprintf(&b, "- Recommendation: %s\n", assessment.Recommendation)

	if bundle.Today != nil && bundle.Today.SleepSeconds != nil {
		fmt.Fprintf(&b, "- Sleep last night: %.1f hours\n", float64(*bundle.Today.SleepSeconds)/3600)
	}
	if bundle.CurrentWeather != nil {
		fmt.Fprintf(&b, "\nCurrent weather: %s, %.1f C, wind %.0f km/h\n",
			bundle.CurrentWeather.Description, bundle.CurrentWeather.TemperatureC, bundle.CurrentWeather.WindSpeedKmh)
	}

	b.WriteString(`
Structure, in order: greeting, recovery summary, explicit mention of the readiness score and risk level, a weather and gear tip (skip if no weather given), a line of encouragement, closing. Plain spoken text only.`)

	return briefingSystemPrompt, b.String()
}
