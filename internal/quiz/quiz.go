// Package quiz runs the timed multiplication quiz.
//
// A Session holds a fixed list of questions. Answers arrive as raw text through
// Submit; malformed text is ignored without touching state. A question accepts
// a bounded number of wrong attempts, after which its answer is revealed and the
// session waits for the caller to call Advance once it has shown the answer.
// When the last question is passed the session records its total time, derives
// a star rating and closes.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidConfig is returned by Start for unusable settings.
	ErrInvalidConfig = errors.New("invalid quiz config")
	// ErrSessionCompleted is returned for any call after the last question.
	ErrSessionCompleted = errors.New("quiz session completed")
	// ErrNoPendingAdvance is returned by Advance when no answer has been revealed.
	ErrNoPendingAdvance = errors.New("no revealed answer to advance from")
)

// Config describes a quiz.
type Config struct {
	QuestionCount    int
	MinOperand       int // inclusive
	MaxOperand       int // inclusive
	MaxWrongAttempts int
	// RevealDelay is how long the caller shows a revealed answer before calling Advance.
	RevealDelay time.Duration
	Thresholds  Thresholds
}

// DefaultConfig is three questions over the 1-12 times tables.
func DefaultConfig() Config {
	return Config{
		QuestionCount:    3,
		MinOperand:       1,
		MaxOperand:       12,
		MaxWrongAttempts: 3,
		RevealDelay:      2 * time.Second,
		Thresholds:       DefaultThresholds(),
	}
}

func (c Config) Validate() error {
	switch {
	case c.QuestionCount < 1:
		return fmt.Errorf("%w: question count %d", ErrInvalidConfig, c.QuestionCount)
	case c.MinOperand > c.MaxOperand:
		return fmt.Errorf("%w: operand range [%d, %d]", ErrInvalidConfig, c.MinOperand, c.MaxOperand)
	case c.MaxWrongAttempts < 1:
		return fmt.Errorf("%w: max wrong attempts %d", ErrInvalidConfig, c.MaxWrongAttempts)
	case c.RevealDelay < 0:
		return fmt.Errorf("%w: reveal delay %s", ErrInvalidConfig, c.RevealDelay)
	}
	return c.Thresholds.Validate()
}

// Question is a multiplication prompt with its precomputed answer.
type Question struct {
	A, B   int
	Answer int
}

func NewQuestion(a, b int) Question {
	return Question{A: a, B: b, Answer: a * b}
}

func (q Question) String() string {
	return fmt.Sprintf("%d x %d = ?", q.A, q.B)
}

// Outcome tags the effect of one submission.
type Outcome int

const (
	// Ignored: empty or unparseable input, or input while an answer is being revealed.
	Ignored Outcome = iota
	Correct
	// Retry: wrong, attempts remain.
	Retry
	// Revealed: wrong attempts exhausted; show the answer, then call Advance.
	Revealed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Correct:
		return "correct"
	case Retry:
		return "retry"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Status reports whether the quiz continues after an advance.
type Status int

const (
	InProgress Status = iota
	Completed
)

func (s Status) String() string {
	if s == Completed {
		return "completed"
	}
	return "in progress"
}

// Progress is the state after moving past a question.
type Progress struct {
	Status  Status
	Index   int // index of the question now showing; equals the count when completed
	Correct int
	Stars   int           // set when Completed
	Elapsed time.Duration // set when Completed
}

// SubmitResult is the answer to one Submit call.
type SubmitResult struct {
	Outcome  Outcome
	Attempts int      // wrong attempts on the current question so far
	Answer   int      // the correct answer, set for Revealed
	Progress Progress // set for Correct
}

type phase int

const (
	answering phase = iota
	awaitingAdvance
	completed
)

// Session is one run of the quiz. It is not safe for concurrent use; the
// frame loop owns it.
type Session struct {
	cfg       Config
	questions []Question

	index   int
	correct int
	wrong   int
	phase   phase

	start   time.Time
	elapsed time.Duration
	peak    time.Duration

	now        func() time.Time
	onComplete func(Progress)
}

// Option customizes Start.
type Option func(*Session)

// WithClock replaces time.Now, for deterministic timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// OnComplete registers a callback run once when the last question is passed.
func OnComplete(fn func(Progress)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// WithQuestions uses fixed questions instead of random ones. Their number must
// equal the configured question count.
func WithQuestions(qs ...Question) Option {
	return func(s *Session) { s.questions = append([]Question(nil), qs...) }
}

// Start generates the questions and starts the session clock.
func Start(cfg Config, rng *rand.Rand, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.questions != nil && len(s.questions) != cfg.QuestionCount:
		return nil, fmt.Errorf("%w: %d fixed questions for a %d question quiz", ErrInvalidConfig, len(s.questions), cfg.QuestionCount)
	case s.questions == nil:
		if rng == nil {
			return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
		}
		s.questions = generate(cfg, rng)
	}

	s.start = s.now()
	return s, nil
}

func generate(cfg Config, rng *rand.Rand) []Question {
	span := cfg.MaxOperand - cfg.MinOperand + 1
	qs := make([]Question, cfg.QuestionCount)
	for i := range qs {
		a := cfg.MinOperand + rng.Intn(span)
		b := cfg.MinOperand + rng.Intn(span)
		qs[i] = NewQuestion(a, b)
	}
	return qs
}

// Submit grades raw player input against the current question.
func (s *Session) Submit(raw string) (SubmitResult, error) {
	switch s.phase {
	case completed:
		return SubmitResult{}, ErrSessionCompleted
	case awaitingAdvance:
		return SubmitResult{Outcome: Ignored, Attempts: s.wrong}, nil
	}

	answer, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return SubmitResult{Outcome: Ignored, Attempts: s.wrong}, nil
	}

	q := s.questions[s.index]
	if answer == q.Answer {
		s.correct++
		attempts := s.wrong
		return SubmitResult{Outcome: Correct, Attempts: attempts, Progress: s.advance()}, nil
	}

	s.wrong++
	if s.wrong >= s.cfg.MaxWrongAttempts {
		s.phase = awaitingAdvance
		return SubmitResult{Outcome: Revealed, Attempts: s.wrong, Answer: q.Answer}, nil
	}
	return SubmitResult{Outcome: Retry, Attempts: s.wrong}, nil
}

// Advance moves past a revealed question.
func (s *Session) Advance() (Progress, error) {
	switch s.phase {
	case completed:
		return Progress{}, ErrSessionCompleted
	case answering:
		return Progress{}, ErrNoPendingAdvance
	}
	return s.advance(), nil
}

func (s *Session) advance() Progress {
	s.index++
	s.wrong = 0
	s.phase = answering

	if s.index < len(s.questions) {
		return Progress{Status: InProgress, Index: s.index, Correct: s.correct}
	}

	s.phase = completed
	s.elapsed = s.sinceStart()
	p := Progress{
		Status:  Completed,
		Index:   s.index,
		Correct: s.correct,
		Stars:   Rate(s.correct, len(s.questions), s.elapsed, s.cfg.Thresholds),
		Elapsed: s.elapsed,
	}
	if s.onComplete != nil {
		s.onComplete(p)
	}
	return p
}

func (s *Session) sinceStart() time.Duration {
	d := s.now().Sub(s.start)
	if d > s.peak {
		s.peak = d
	}
	return s.peak
}

// ElapsedSeconds is the live timer reading. It never decreases and freezes at
// the final time once the session completes.
func (s *Session) ElapsedSeconds() float64 {
	if s.phase == completed {
		return s.elapsed.Seconds()
	}
	return s.sinceStart().Seconds()
}

// Current returns the question being asked, or false once completed.
func (s *Session) Current() (Question, bool) {
	if s.phase == completed {
		return Question{}, false
	}
	return s.questions[s.index], true
}

func (s *Session) Index() int { return s.index }
func (s *Session) Len() int { return len(s.questions) }
func (s *Session) CorrectCount() int { return s.correct }
func (s *Session) WrongAttempts() int { return s.wrong }
func (s *Session) Done() bool { return s.phase == completed }
func (s *Session) Config() Config { return s.cfg }

// AwaitingAdvance reports whether a revealed answer is on screen.
func (s *Session) AwaitingAdvance() bool { return s.phase == awaitingAdvance }

// Questions returns a copy of the question list.
func (s *Session) Questions() []Question {
	return append([]Question(nil), s.questions...)
}
