package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/repos"
	"github.com/yungbote/stride-backend/internal/types"
)

const (
	briefingMaxTokens      = 400
	fallbackBriefingScript = "Good morning. Your briefing could not be generated today, but the plan stands. Go run."
)

type BriefingService interface {
	GenerateAudioBriefing(ctx context.Context, athleteID uuid.UUID) (string, error)
}

type briefingService struct {
	log            *logger.Logger
	readiness      ReadinessService
	assessmentRepo repos.ReadinessAssessmentRepo
	ai             OpenAIClient
	speech         SpeechProviderService
	bucket         BucketService
}

func NewBriefingService(
	log *logger.Logger,
	readiness ReadinessService,
	assessmentRepo repos.ReadinessAssessmentRepo,
	ai OpenAIClient,
	speech SpeechProviderService,
	bucket BucketService,
) BriefingService {
	return &briefingService{
		log:            log.With("service", "BriefingService"),
		readiness:      readiness,
		assessmentRepo: assessmentRepo,
		ai:             ai,
		speech:         speech,
		bucket:         bucket,
	}
}

// GenerateAudioBriefing narrates the already-persisted assessment for today.
// The script generation degrades to a canned line when inference is down;
// synthesis and storage failures propagate because a missing audio file has
// no safe substitute and the scheduler needs to know.
func (s *briefingService) GenerateAudioBriefing(ctx context.Context, athleteID uuid.UUID) (string, error) {
	if s.speech == nil {
		return "", fmt.Errorf("speech provider not configured")
	}
	if s.bucket == nil {
		return "", fmt.Errorf("bucket service not configured")
	}

	started := time.Now()
	date := DateOnly(started)

	assessment, err := s.assessmentRepo.GetByAthleteAndDate(ctx, nil, athleteID, date)
	if err != nil {
		return "", fmt.Errorf("load assessment: %w", err)
	}
	if assessment == nil {
		return "", fmt.Errorf("no readiness assessment for athlete on %s, run the daily check-in first", date.Format("2006-01-02"))
	}

	bundle, err := s.readiness.GatherContext(ctx, athleteID, date)
	if err != nil {
		return "", fmt.Errorf("gather briefing context: %w", err)
	}

	script := s.writeScript(ctx, bundle, assessment)

	audio, err := s.speech.Synthesize(ctx, script, DefaultBriefingVoice)
	if err != nil {
		if metrics := observability.Current(); metrics != nil {
			metrics.ObserveBriefing("synthesis_failed", time.Since(started))
		}
		return "", fmt.Errorf("synthesize briefing: %w", err)
	}

	key := fmt.Sprintf("briefings/%s/%s.mp3", athleteID.String(), date.Format("2006-01-02"))
	if err := s.bucket.UploadBytes(ctx, key, audio, "audio/mpeg"); err != nil {
		if metrics := observability.Current(); metrics != nil {
			metrics.ObserveBriefing("upload_failed", time.Since(started))
		}
		return "", fmt.Errorf("store briefing audio: %w", err)
	}
	url := s.bucket.GetPublicURL(key)

	if err := s.assessmentRepo.SetAudioURL(ctx, nil, athleteID, date, url); err != nil {
		return "", fmt.Errorf("attach briefing url: %w", err)
	}

	if metrics := observability.Current(); metrics != nil {
		metrics.ObserveBriefing("completed", time.Since(started))
	}
	s.log.Info("Audio briefing generated",
		"athlete_id", athleteID.String(),
		"date", date.Format("2006-01-02"),
		"bytes", len(audio),
	)
	return url, nil
}

func (s *briefingService) writeScript(ctx context.Context, bundle *CheckInContext, assessment *types.ReadinessAssessment) string {
	if s.ai == nil {
		s.log.Warn("OpenAI client not configured, using fallback briefing script")
		return fallbackBriefingScript
	}
	system, user := buildBriefingPrompt(bundle, assessment)
	script, err := s.ai.Complete(ctx, system, user, briefingMaxTokens)
	if err != nil || script == "" {
		s.log.Warn("Briefing script generation failed, using fallback script", "error", err)
		return fallbackBriefingScript
	}
	return script
}
