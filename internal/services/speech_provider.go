package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/stride-backend/internal/logger"
)

const DefaultBriefingVoice = "en-US-Neural2-D"

type SpeechProviderService interface {
	Synthesize(ctx context.Context, script string, voice string) ([]byte, error)
	Close() error
}

type speechProviderService struct {
	log    *logger.Logger
	client *texttospeech.Client

	maxRetries int
}

func NewSpeechProviderService(log *logger.Logger) (SpeechProviderService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "SpeechProviderService")

	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	ctx := context.Background()

	var c *texttospeech.Client
	var err error
	if creds != "" {
		c, err = texttospeech.NewClient(ctx, option.WithCredentialsFile(creds))
	} else {
		c, err = texttospeech.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("texttospeech client: %w", err)
	}

	return &speechProviderService{
		log:        slog,
		client:     c,
		maxRetries: 3,
	}, nil
}

func (s *speechProviderService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Synthesize renders script as MP3 audio with the given voice. Briefings
// are under a minute of speech, a strict timeout is fine here.
func (s *speechProviderService) Synthesize(ctx context.Context, script string, voice string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	script = strings.TrimSpace(script)
	if script == "" {
		return nil, fmt.Errorf("empty script")
	}
	if voice == "" {
		voice = DefaultBriefingVoice
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: script},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: "en-US",
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := s.retry(ctx, func() (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return s.client.SynthesizeSpeech(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("texttospeech synthesize: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("texttospeech returned empty audio")
	}
	return resp.GetAudioContent(), nil
}

func (s *speechProviderService) retry(ctx context.Context, fn func() (*texttospeechpb.SynthesizeSpeechResponse, error)) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	backoff := 750 * time.Millisecond
	var last error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return nil, err
		}
		if attempt == s.maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
