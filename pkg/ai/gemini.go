package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	gradeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ems",
		Subsystem: "ai",
		Name:      "grading_duration_seconds",
		Help:      "Duration of AI grading requests",
	}, []string{"model"})

	gradeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ems",
		Subsystem: "ai",
		Name:      "grading_failures_total",
		Help:      "Number of AI grading calls resolved to a fallback result",
	}, []string{"model", "reason"})
)

// GeminiConfig defines configuration options for the Gemini grader.
type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// GeminiGrader implements Grader against a Gemini-style generateContent REST
// endpoint. All failure modes resolve to a degraded GradeResult.
type GeminiGrader struct {
	cfg    GeminiConfig
	client *http.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiGrader builds a grader using the provided configuration. Missing
// credentials are not an error here; grading calls then degrade with a
// diagnostic, so a misconfigured deployment still accepts submissions.
func NewGeminiGrader(cfg GeminiConfig) *GeminiGrader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	return &GeminiGrader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		tracer: otel.Tracer("github.com/ems-platform/ems-api/pkg/ai/gemini"),
		logger: cfg.Logger.With().Str("component", "gemini_grader").Logger(),
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Grade sends the submission text for advisory grading. It never returns an
// error; unreachable or misbehaving upstreams yield a degraded result whose
// feedback names the cause.
func (g *GeminiGrader) Grade(parent context.Context, input GradeInput) GradeResult {
	ctx, span := g.tracer.Start(parent, "gemini.grade", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	if len(strings.TrimSpace(input.Text)) < MinGradeableChars {
		span.SetAttributes(attribute.Bool("grading.skipped", true))
		return GradeResult{Feedback: FeedbackTooShort, Degraded: true}
	}

	if g.cfg.APIKey == "" || g.cfg.BaseURL == "" {
		return g.fallback(span, "config_missing", "AI grading is not configured")
	}

	start := time.Now()
	result, reason, err := g.call(ctx, input)
	gradeDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		g.logger.Warn().Err(err).Str("reason", reason).Msg("ai grading degraded")
		return g.fallback(span, reason, fmt.Sprintf("AI grading unavailable: %v", err))
	}

	span.SetAttributes(attribute.Float64("grading.marks", result.Marks))
	return result
}

func (g *GeminiGrader) call(ctx context.Context, input GradeInput) (GradeResult, string, error) {
	prompt := buildPrompt(input)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return GradeResult{}, "encode_request", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model, g.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return GradeResult{}, "build_request", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return GradeResult{}, "transport", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return GradeResult{}, "read_body", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return GradeResult{}, "http_status", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if len(payload) == 0 {
		return GradeResult{}, "empty_body", fmt.Errorf("empty response payload")
	}

	var outer geminiResponse
	if err := json.Unmarshal(payload, &outer); err != nil {
		return GradeResult{}, "decode_envelope", err
	}

	if len(outer.Candidates) == 0 || len(outer.Candidates[0].Content.Parts) == 0 {
		return GradeResult{}, "no_candidates", fmt.Errorf("no candidates in response")
	}

	inner := stripCodeFences(outer.Candidates[0].Content.Parts[0].Text)

	// encoding/json matches fields case-insensitively, which covers models
	// answering with "Marks" or "AI_Probability".
	var parsed struct {
		Marks         float64 `json:"marks"`
		Feedback      string  `json:"feedback"`
		AIProbability float64 `json:"ai_probability"`
	}
	if err := json.Unmarshal([]byte(inner), &parsed); err != nil {
		return GradeResult{}, "decode_grade", err
	}

	marks := clamp(parsed.Marks, 0, input.TotalMarks)
	probability := clamp(parsed.AIProbability, 0, 100)

	return GradeResult{
		Marks:         marks,
		Feedback:      strings.TrimSpace(parsed.Feedback),
		AIProbability: probability,
	}, "", nil
}

func (g *GeminiGrader) fallback(span trace.Span, reason, feedback string) GradeResult {
	gradeFailures.WithLabelValues(g.cfg.Model, reason).Inc()
	span.SetStatus(codes.Error, reason)
	return GradeResult{Feedback: feedback, Degraded: true}
}

func buildPrompt(input GradeInput) string {
	builder := strings.Builder{}
	builder.WriteString("You are grading a student assignment submission.\n\n")
	builder.WriteString("Assignment: ")
	builder.WriteString(input.AssignmentTitle)
	builder.WriteString(fmt.Sprintf("\nTotal marks: %.0f\n\n", input.TotalMarks))
	builder.WriteString("Tasks:\n")
	builder.WriteString(fmt.Sprintf("1. Grade the submission out of %.0f.\n", input.TotalMarks))
	builder.WriteString("2. Give feedback in at most 3 sentences.\n")
	builder.WriteString("3. Estimate the probability (0-100) that the text was AI-generated.\n\n")
	builder.WriteString("Return ONLY a JSON object with keys \"marks\", \"feedback\", \"ai_probability\".\n\n")
	builder.WriteString("Submission text:\n")
	builder.WriteString(input.Text)
	return builder.String()
}

// stripCodeFences removes a wrapping markdown code fence, with or without a
// json language tag, from the model's answer.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if high > 0 && value > high {
		return high
	}
	return value
}
