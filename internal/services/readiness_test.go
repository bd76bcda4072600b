package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/types"
)

func newTestReadinessService(t *testing.T, metrics *fakeMetricRepo, activities *fakeActivityRepo, athletes *fakeAthleteRepo, assessments *fakeAssessmentRepo, weather *fakeWeatherService, ai OpenAIClient) ReadinessService {
	t.Helper()
	if metrics == nil {
		metrics = &fakeMetricRepo{}
	}
	if activities == nil {
		activities = &fakeActivityRepo{}
	}
	if athletes == nil {
		athletes = &fakeAthleteRepo{}
	}
	if assessments == nil {
		assessments = newFakeAssessmentRepo()
	}
	var ws WeatherService
	if weather != nil {
		ws = weather
	}
	return NewReadinessService(testLogger(t), athletes, metrics, activities, assessments, ws, ai)
}

func TestPerformDailyCheckInIdempotentKey(t *testing.T) {
	athleteID := uuid.New()
	assessments := newFakeAssessmentRepo()
	ai := &fakeAIClient{responses: []string{
		`{"score": 80, "risk_level": "low", "summary": "fresh", "recommendation": "train"}`,
		`{"score": 40, "risk_level": "high", "summary": "tired", "recommendation": "rest"}`,
	}}
	svc := newTestReadinessService(t, nil, nil, nil, assessments, nil, ai)

	first, err := svc.PerformDailyCheckIn(context.Background(), athleteID)
	if err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	if first.Score != 80 {
		t.Fatalf("first score: want=80 got=%d", first.Score)
	}

	second, err := svc.PerformDailyCheckIn(context.Background(), athleteID)
	if err != nil {
		t.Fatalf("second check-in: %v", err)
	}
	if second.Score != 40 {
		t.Fatalf("second score: want=40 got=%d", second.Score)
	}

	if len(assessments.rows) != 1 {
		t.Fatalf("rows for key: want=1 got=%d", len(assessments.rows))
	}
	row, err := assessments.GetByAthleteAndDate(context.Background(), nil, athleteID, DateOnly(time.Now()))
	if err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.Score != 40 || row.RiskLevel != types.RiskLevelHigh {
		t.Fatalf("persisted row: want score=40 risk=high got score=%d risk=%s", row.Score, row.RiskLevel)
	}
}

func TestCheckInFallbackIsExact(t *testing.T) {
	cases := []struct {
		name string
		ai   OpenAIClient
	}{
		{name: "not configured", ai: nil},
		{name: "provider error", ai: &fakeAIClient{errs: []error{fmt.Errorf("boom")}}},
		{name: "no json in response", ai: &fakeAIClient{responses: []string{"sorry, I cannot help with that"}}},
		{name: "malformed json", ai: &fakeAIClient{responses: []string{`{"score": "not a number"}`}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestReadinessService(t, nil, nil, nil, nil, nil, tc.ai)
			row, err := svc.PerformDailyCheckIn(context.Background(), uuid.New())
			if err != nil {
				t.Fatalf("check-in: %v", err)
			}
			if row.Score != 50 {
				t.Fatalf("score: want=50 got=%d", row.Score)
			}
			if row.RiskLevel != types.RiskLevelModerate {
				t.Fatalf("risk: want=moderate got=%s", row.RiskLevel)
			}
			if row.Summary != fallbackSummary {
				t.Fatalf("summary: want=%q got=%q", fallbackSummary, row.Summary)
			}
			if row.Recommendation != fallbackRecommendation {
				t.Fatalf("recommendation: want=%q got=%q", fallbackRecommendation, row.Recommendation)
			}
		})
	}
}

func TestCheckInEmptyInputs(t *testing.T) {
	ai := &fakeAIClient{responses: []string{
		`{"score": 70, "risk_level": "low", "summary": "ok", "recommendation": "easy run"}`,
	}}
	weather := &fakeWeatherService{}
	svc := newTestReadinessService(t, &fakeMetricRepo{}, &fakeActivityRepo{}, nil, nil, weather, ai)

	row, err := svc.PerformDailyCheckIn(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("check-in with empty inputs: %v", err)
	}
	if row.Score != 70 {
		t.Fatalf("score: want=70 got=%d", row.Score)
	}

	prompt := ai.users[0]
	if !strings.Contains(prompt, "Accumulated strain: 0") {
		t.Fatalf("prompt missing zero strain, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Activities: 0") {
		t.Fatalf("prompt missing zero activities, got:\n%s", prompt)
	}
	if weather.currentCalls != 0 || weather.historicalCalls != 0 {
		t.Fatalf("weather looked up without any geolocated activity")
	}
}

func TestGatherSkipsWeatherWithoutCoords(t *testing.T) {
	weather := &fakeWeatherService{current: &WeatherSnapshot{Description: "clear sky"}}
	activities := &fakeActivityRepo{activities: []*types.Activity{
		{Name: "Morning Run", SportType: "run", StartedAt: time.Now().Add(-24 * time.Hour), SufferScore: 55},
	}}
	svc := newTestReadinessService(t, nil, activities, nil, nil, weather, nil)

	bundle, err := svc.GatherContext(context.Background(), uuid.New(), DateOnly(time.Now()))
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if bundle.CurrentWeather != nil || bundle.LastRunWeather != nil {
		t.Fatalf("weather should be absent without coordinates")
	}
	if weather.currentCalls != 0 {
		t.Fatalf("weather provider called despite missing coordinates")
	}
	if bundle.TotalStrain != 55 {
		t.Fatalf("total strain: want=55 got=%.0f", bundle.TotalStrain)
	}
}

func TestGatherWeatherFailureDegradesToAbsent(t *testing.T) {
	weather := &fakeWeatherService{err: fmt.Errorf("provider down")}
	activities := &fakeActivityRepo{activities: []*types.Activity{
		{Name: "Track", SportType: "run", StartedAt: time.Now().Add(-2 * time.Hour), StartLat: floatPtr(52.52), StartLon: floatPtr(13.4)},
	}}
	svc := newTestReadinessService(t, nil, activities, nil, nil, weather, nil)

	bundle, err := svc.GatherContext(context.Background(), uuid.New(), DateOnly(time.Now()))
	if err != nil {
		t.Fatalf("gather must not fail on weather errors: %v", err)
	}
	if bundle.CurrentWeather != nil || bundle.LastRunWeather != nil {
		t.Fatalf("weather should degrade to absent on provider failure")
	}
	if weather.currentCalls != 1 || weather.historicalCalls != 1 {
		t.Fatalf("weather lookups: want 1 current + 1 historical, got %d/%d", weather.currentCalls, weather.historicalCalls)
	}
}

func TestPromptCarriesHRVDropFigure(t *testing.T) {
	today := DateOnly(time.Now())
	metrics := []*types.DailyMetric{
		{Date: today, HRVMs: floatPtr(40), RestingHR: intPtr(52), SleepSeconds: intPtr(7 * 3600), Source: "oura"},
	}
	// 13 baseline days all at 50ms -> baseline 50.0, today's 40 -> 20.0% drop.
	for i := 1; i <= 13; i++ {
		metrics = append(metrics, &types.DailyMetric{
			Date:   today.AddDate(0, 0, -i),
			HRVMs:  floatPtr(50),
			Source: "oura",
		})
	}
	ai := &fakeAIClient{responses: []string{
		`{"score": 35, "risk_level": "high", "summary": "big drop", "recommendation": "rest"}`,
	}}
	svc := newTestReadinessService(t, &fakeMetricRepo{metrics: metrics}, nil, nil, nil, nil, ai)

	if _, err := svc.PerformDailyCheckIn(context.Background(), uuid.New()); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	prompt := ai.users[0]
	if !strings.Contains(prompt, "20.0% drop") {
		t.Fatalf("prompt missing computed drop figure, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "baseline average over the prior 13 days: 50.0 ms") {
		t.Fatalf("prompt missing baseline average, got:\n%s", prompt)
	}
}

func TestScoreClampsAndNormalizes(t *testing.T) {
	cases := []struct {
		name     string
		response string
		score    int
		risk     string
	}{
		{
			name:     "score above range clamps",
			response: `{"score": 150, "risk_level": "low", "summary": "s", "recommendation": "r"}`,
			score:    100,
			risk:     types.RiskLevelLow,
		},
		{
			name:     "score below range clamps",
			response: `{"score": -5, "risk_level": "critical", "summary": "s", "recommendation": "r"}`,
			score:    0,
			risk:     types.RiskLevelCritical,
		},
		{
			name:     "risk level case folds",
			response: `{"score": 61, "risk_level": " HIGH ", "summary": "s", "recommendation": "r"}`,
			score:    61,
			risk:     types.RiskLevelHigh,
		},
		{
			name:     "json wrapped in prose still parses",
			response: "Here is my assessment:\n```json\n{\"score\": 72, \"risk_level\": \"moderate\", \"summary\": \"s\", \"recommendation\": \"r\"}\n```\nStay safe!",
			score:    72,
			risk:     types.RiskLevelModerate,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ai := &fakeAIClient{responses: []string{tc.response}}
			svc := newTestReadinessService(t, nil, nil, nil, nil, nil, ai)
			got := svc.Score(context.Background(), &CheckInContext{})
			if got.Score != tc.score {
				t.Fatalf("score: want=%d got=%d", tc.score, got.Score)
			}
			if got.RiskLevel != tc.risk {
				t.Fatalf("risk: want=%s got=%s", tc.risk, got.RiskLevel)
			}
		})
	}
}

func TestScoreInvalidRiskFallsBack(t *testing.T) {
	ai := &fakeAIClient{responses: []string{
		`{"score": 90, "risk_level": "fine", "summary": "s", "recommendation": "r"}`,
	}}
	svc := newTestReadinessService(t, nil, nil, nil, nil, nil, ai)
	got := svc.Score(context.Background(), &CheckInContext{})
	if got.Score != fallbackScore || got.RiskLevel != fallbackRiskLevel {
		t.Fatalf("invalid risk level should take fallback, got score=%d risk=%s", got.Score, got.RiskLevel)
	}
}

func TestBaselineHRVCountsMissingAsZero(t *testing.T) {
	baseline := []*types.DailyMetric{
		{HRVMs: floatPtr(40)},
		{HRVMs: nil},
		{HRVMs: floatPtr(50)},
	}
	got := baselineHRV(baseline)
	want := 30.0
	if got != want {
		t.Fatalf("baseline hrv: want=%.1f got=%.1f", want, got)
	}
	if baselineHRV(nil) != 0 {
		t.Fatalf("empty baseline must average to zero")
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "prose around", in: `sure: {"a":1} hope that helps`, want: `{"a":1}`, ok: true},
		{name: "nested braces", in: `{"a":{"b":2},"c":3}`, want: `{"a":{"b":2},"c":3}`, ok: true},
		{name: "braces inside strings", in: `{"a":"{not a brace}"}`, want: `{"a":"{not a brace}"}`, ok: true},
		{name: "no object", in: "no json here", ok: false},
		{name: "unterminated", in: `{"a":1`, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSONObject(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok: want=%v got=%v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("object: want=%q got=%q", tc.want, got)
			}
		})
	}
}
