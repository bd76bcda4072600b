package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/types"
)

func testLogger(t interface{ Fatalf(string, ...interface{}) }) *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeAthleteRepo struct {
	athlete *types.Athlete
	err     error
}

func (f *fakeAthleteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Athlete, error) {
	return f.athlete, f.err
}

type fakeMetricRepo struct {
	metrics []*types.DailyMetric
	err     error
}

func (f *fakeMetricRepo) GetRecentByAthlete(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, before time.Time, limit int) ([]*types.DailyMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.metrics) > limit {
		return f.metrics[:limit], nil
	}
	return f.metrics, nil
}

type fakeActivityRepo struct {
	activities []*types.Activity
	err        error
}

func (f *fakeActivityRepo) GetByAthleteSince(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, since time.Time) ([]*types.Activity, error) {
	return f.activities, f.err
}

// fakeAssessmentRepo mirrors the composite-key upsert semantics of the real
// repo: one row per (athlete, date), conflict updates never touch audio_url.
type fakeAssessmentRepo struct {
	rows        map[string]*types.ReadinessAssessment
	upsertErr   error
	setURLErr   error
	upsertCalls int
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{rows: map[string]*types.ReadinessAssessment{}}
}

func assessmentKey(athleteID uuid.UUID, date time.Time) string {
	return athleteID.String() + "|" + date.Format("2006-01-02")
}

func (f *fakeAssessmentRepo) GetByAthleteAndDate(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, date time.Time) (*types.ReadinessAssessment, error) {
	row, ok := f.rows[assessmentKey(athleteID, date)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAssessmentRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ReadinessAssessment) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	k := assessmentKey(row.AthleteID, row.Date)
	if existing, ok := f.rows[k]; ok {
		existing.Score = row.Score
		existing.RiskLevel = row.RiskLevel
		existing.Summary = row.Summary
		existing.Recommendation = row.Recommendation
		existing.GeneratedAt = row.GeneratedAt
		existing.UpdatedAt = time.Now().UTC()
		return nil
	}
	cp := *row
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	f.rows[k] = &cp
	return nil
}

func (f *fakeAssessmentRepo) SetAudioURL(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, date time.Time, url string) error {
	if f.setURLErr != nil {
		return f.setURLErr
	}
	row, ok := f.rows[assessmentKey(athleteID, date)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.AudioURL = &url
	return nil
}

// fakeAIClient replays queued responses and records every prompt it saw.
type fakeAIClient struct {
	responses []string
	errs      []error
	calls     int

	systems []string
	users   []string
}

func (f *fakeAIClient) Complete(ctx context.Context, system string, user string, maxTokens int) (string, error) {
	i := f.calls
	f.calls++
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", fmt.Errorf("fakeAIClient: no response queued for call %d", i)
}

type fakeWeatherService struct {
	current    *WeatherSnapshot
	historical *WeatherSnapshot
	err        error

	currentCalls    int
	historicalCalls int
}

func (f *fakeWeatherService) Current(ctx context.Context, lat, lon float64) (*WeatherSnapshot, error) {
	f.currentCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.current, nil
}

func (f *fakeWeatherService) Historical(ctx context.Context, lat, lon float64, at time.Time) (*WeatherSnapshot, error) {
	f.historicalCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.historical, nil
}

type fakeSpeechService struct {
	audio   []byte
	err     error
	scripts []string
	voices  []string
}

func (f *fakeSpeechService) Synthesize(ctx context.Context, script string, voice string) ([]byte, error) {
	f.scripts = append(f.scripts, script)
	f.voices = append(f.voices, voice)
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func (f *fakeSpeechService) Close() error { return nil }

type fakeBucketService struct {
	uploadErr    error
	keys         []string
	contentTypes []string
	payloads     [][]byte
}

func (f *fakeBucketService) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	f.payloads = append(f.payloads, data)
	return f.uploadErr
}

func (f *fakeBucketService) DeleteFile(ctx context.Context, key string) error { return nil }

func (f *fakeBucketService) GetPublicURL(key string) string {
	return "https://storage.googleapis.com/test-bucket/" + key
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
