package ai

import "context"

// MinGradeableChars is the minimum extracted-text length worth sending to the
// model. Anything shorter is graded as unreadable without a network call.
const MinGradeableChars = 50

// FeedbackTooShort is the diagnostic stored when the extracted text is below
// the gradeable threshold.
const FeedbackTooShort = "content too short or unreadable for AI"

// GradeInput carries the artefacts needed to produce an advisory grade.
type GradeInput struct {
	Text            string
	AssignmentTitle string
	TotalMarks      float64
}

// GradeResult is the advisory outcome of an AI grading call. Degraded is set
// when the result is a fallback rather than a model answer; Feedback then
// carries the human-readable cause.
type GradeResult struct {
	Marks         float64 `json:"marks"`
	Feedback      string  `json:"feedback"`
	AIProbability float64 `json:"ai_probability"`
	Degraded      bool    `json:"-"`
}

// Grader produces advisory grades for submission text. Implementations never
// return an error and never panic; every failure mode resolves to a degraded
// GradeResult.
type Grader interface {
	Grade(ctx context.Context, input GradeInput) GradeResult
}
