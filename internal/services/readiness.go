package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/repos"
	"github.com/yungbote/stride-backend/internal/types"
)

const (
	metricWindowSize   = 14
	activityWindowDays = 7
	scoreMaxTokens     = 600

	fallbackScore          = 50
	fallbackRiskLevel      = types.RiskLevelModerate
	fallbackSummary        = "Readiness analysis is unavailable right now."
	fallbackRecommendation = "Go by feel today and keep the effort comfortable."
)

// CheckInContext is everything the scorer sees for one athlete on one day.
type CheckInContext struct {
	Athlete    *types.Athlete
	Today      *types.DailyMetric
	Baseline   []*types.DailyMetric
	Activities []*types.Activity

	CurrentWeather *WeatherSnapshot
	LastRunWeather *WeatherSnapshot

	BaselineHRV float64
	TotalStrain float64
}

// Assessment is the scorer's result shape before persistence.
type Assessment struct {
	Score          int    `json:"score"`
	RiskLevel      string `json:"risk_level"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

type ReadinessService interface {
	PerformDailyCheckIn(ctx context.Context, athleteID uuid.UUID) (*types.ReadinessAssessment, error)
	GatherContext(ctx context.Context, athleteID uuid.UUID, date time.Time) (*CheckInContext, error)
	Score(ctx context.Context, bundle *CheckInContext) *Assessment
}

type readinessService struct {
	log            *logger.Logger
	athleteRepo    repos.AthleteRepo
	metricRepo     repos.DailyMetricRepo
	activityRepo   repos.ActivityRepo
	assessmentRepo repos.ReadinessAssessmentRepo
	weather        WeatherService
	ai             OpenAIClient
}

// NewReadinessService wires the daily check-in pipeline. ai may be nil when
// OPENAI_API_KEY is absent; the scorer then always takes the fallback path.
func NewReadinessService(
	log *logger.Logger,
	athleteRepo repos.AthleteRepo,
	metricRepo repos.DailyMetricRepo,
	activityRepo repos.ActivityRepo,
	assessmentRepo repos.ReadinessAssessmentRepo,
	weather WeatherService,
	ai OpenAIClient,
) ReadinessService {
	return &readinessService{
		log:            log.With("service", "ReadinessService"),
		athleteRepo:    athleteRepo,
		metricRepo:     metricRepo,
		activityRepo:   activityRepo,
		assessmentRepo: assessmentRepo,
		weather:        weather,
		ai:             ai,
	}
}

func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *readinessService) PerformDailyCheckIn(ctx context.Context, athleteID uuid.UUID) (*types.ReadinessAssessment, error) {
	started := time.Now()
	date := DateOnly(started)

	bundle, err := s.GatherContext(ctx, athleteID, date)
	if err != nil {
		if metrics := observability.Current(); metrics != nil {
			metrics.ObserveCheckIn("failed", "", time.Since(started))
		}
		return nil, fmt.Errorf("gather check-in context: %w", err)
	}

	result := s.Score(ctx, bundle)

	row := &types.ReadinessAssessment{
		AthleteID:      athleteID,
		Date:           date,
		Score:          result.Score,
		RiskLevel:      result.RiskLevel,
		Summary:        result.Summary,
		Recommendation: result.Recommendation,
		GeneratedAt:    time.Now().UTC(),
	}
	if err := s.assessmentRepo.Upsert(ctx, nil, row); err != nil {
		if metrics := observability.Current(); metrics != nil {
			metrics.ObserveCheckIn("failed", result.RiskLevel, time.Since(started))
		}
		return nil, fmt.Errorf("persist assessment: %w", err)
	}

	if metrics := observability.Current(); metrics != nil {
		metrics.ObserveCheckIn("completed", row.RiskLevel, time.Since(started))
	}
	s.log.Info("Daily check-in complete",
		"athlete_id", athleteID.String(),
		"date", date.Format("2006-01-02"),
		"score", row.Score,
		"risk_level", row.RiskLevel,
	)
	return row, nil
}

// GatherContext pulls the metric window, the trailing week of activities and
// the athlete profile concurrently, then enriches with weather at the most
// recent geolocated activity. Weather is best-effort and never fails the
// gather; a missing profile is normal absence.
func (s *readinessService) GatherContext(ctx context.Context, athleteID uuid.UUID, date time.Time) (*CheckInContext, error) {
	bundle := &CheckInContext{}

	since := time.Now().UTC().AddDate(0, 0, -activityWindowDays)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		metrics, err := s.metricRepo.GetRecentByAthlete(gctx, nil, athleteID, date, metricWindowSize)
		if err != nil {
			return fmt.Errorf("recent metrics: %w", err)
		}
		if len(metrics) > 0 {
			bundle.Today = metrics[0]
			bundle.Baseline = metrics[1:]
		}
		return nil
	})
	g.Go(func() error {
		activities, err := s.activityRepo.GetByAthleteSince(gctx, nil, athleteID, since)
		if err != nil {
			return fmt.Errorf("activity load: %w", err)
		}
		bundle.Activities = activities
		return nil
	})
	g.Go(func() error {
		athlete, err := s.athleteRepo.GetByID(gctx, nil, athleteID)
		if err != nil {
			return fmt.Errorf("athlete profile: %w", err)
		}
		bundle.Athlete = athlete
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle.BaselineHRV = baselineHRV(bundle.Baseline)
	bundle.TotalStrain = totalStrain(bundle.Activities)

	s.attachWeather(ctx, bundle)
	return bundle, nil
}

func (s *readinessService) attachWeather(ctx context.Context, bundle *CheckInContext) {
	if s.weather == nil {
		return
	}
	var lastRun *types.Activity
	for _, a := range bundle.Activities {
		if a.HasStartCoords() {
			lastRun = a
			break
		}
	}
	if lastRun == nil {
		return
	}

	lat, lon := *lastRun.StartLat, *lastRun.StartLon
	wg, wctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		snap, err := s.weather.Current(wctx, lat, lon)
		if err != nil {
			s.log.Warn("Current weather lookup failed", "error", err)
			return nil
		}
		bundle.CurrentWeather = snap
		return nil
	})
	wg.Go(func() error {
		snap, err := s.weather.Historical(wctx, lat, lon, lastRun.StartedAt)
		if err != nil {
			s.log.Warn("Historical weather lookup failed", "error", err)
			return nil
		}
		bundle.LastRunWeather = snap
		return nil
	})
	_ = wg.Wait()
}

// baselineHRV averages HRV over the baseline window. Samples without an HRV
// reading count as zero before averaging, which depresses the baseline when
// data gaps exist; the source systems have always behaved this way and the
// scoring prompt is calibrated against it.
func baselineHRV(baseline []*types.DailyMetric) float64 {
	if len(baseline) == 0 {
		return 0
	}
	var sum float64
	for _, m := range baseline {
		if m.HRVMs != nil {
			sum += *m.HRVMs
		}
	}
	return sum / float64(len(baseline))
}

func totalStrain(activities []*types.Activity) float64 {
	var sum float64
	for _, a := range activities {
		sum += a.SufferScore
	}
	return sum
}

// Score produces an assessment from the bundle. Every failure mode of the
// inference call collapses into the fixed fallback assessment; the daily
// check-in must never block on a scoring outage.
func (s *readinessService) Score(ctx context.Context, bundle *CheckInContext) *Assessment {
	if s.ai == nil {
		s.log.Warn("OpenAI client not configured, using fallback assessment")
		return fallbackAssessment()
	}

	system, user := buildScoringPrompt(bundle)

	raw, err := s.ai.Complete(ctx, system, user, scoreMaxTokens)
	if err != nil {
		s.log.Warn("Readiness scoring call failed, using fallback assessment", "error", err)
		return fallbackAssessment()
	}

	jsonText, ok := extractJSONObject(raw)
	if !ok {
		s.log.Warn("Readiness scoring response contained no JSON object", "raw_len", len(raw))
		return fallbackAssessment()
	}

	var result Assessment
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		s.log.Warn("Readiness scoring response failed to parse", "error", err)
		return fallbackAssessment()
	}

	result.RiskLevel = strings.ToLower(strings.TrimSpace(result.RiskLevel))
	if !types.ValidRiskLevel(result.RiskLevel) {
		s.log.Warn("Readiness scoring response had invalid risk level", "risk_level", result.RiskLevel)
		return fallbackAssessment()
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return &result
}

func fallbackAssessment() *Assessment {
	return &Assessment{
		Score:          fallbackScore,
		RiskLevel:      fallbackRiskLevel,
		Summary:        fallbackSummary,
		Recommendation: fallbackRecommendation,
	}
}

// extractJSONObject returns the first balanced JSON object substring of raw.
// The model is asked for bare JSON but routinely wraps it in prose or code
// fences, so the parse target is cut out explicitly.
func extractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
