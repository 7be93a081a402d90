// Package engine drives one café session through its stages: the floor where
// agents wander, the kitchen where an order is assembled and the times-table
// quiz that rates it. The Engine is owned by a single frame loop.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tinybot-ca/cosy-restaurant/internal/models"
	"github.com/tinybot-ca/cosy-restaurant/internal/motion"
	"github.com/tinybot-ca/cosy-restaurant/internal/quiz"
	"github.com/tinybot-ca/cosy-restaurant/internal/recipe"
)

var (
	ErrWrongStage        = errors.New("operation not valid in the current stage")
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrUnknownRecipe     = errors.New("unknown recipe")
	ErrNothingPending    = errors.New("no recipe verdict waiting")
)

// historyLimit bounds the event log; older entries are dropped.
const historyLimit = 32

type Stage int

const (
	AwaitingStart Stage = iota
	FreeRoam
	RecipeChallenge
	QuizChallenge
	Result
)

func (s Stage) String() string {
	switch s {
	case AwaitingStart:
		return "awaiting start"
	case FreeRoam:
		return "free roam"
	case RecipeChallenge:
		return "recipe challenge"
	case QuizChallenge:
		return "quiz challenge"
	case Result:
		return "result"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Spawn places a named agent on the floor at Start.
type Spawn struct {
	Name string
	At   motion.Point
}

// Settings configure a session.
type Settings struct {
	Floor  motion.Rect
	Spawns []Spawn
	Motion motion.Params
	// Order is the recipe id served in the kitchen; empty picks one at random.
	Order        string
	RetryDelay   time.Duration
	SuccessDelay time.Duration
	QuizEnabled  bool
	Quiz         quiz.Config
}

// AgentView is a read-only snapshot of an agent for drawing.
type AgentView struct {
	Name       string
	Position   motion.Point
	FacingLeft bool
	State      motion.State
	Pose       motion.Pose
	Depth      float64
}

// RecipeOutcome is the verdict on a submitted plate.
type RecipeOutcome struct {
	Matched bool
	// Ignored is set when a previous verdict is still showing.
	Ignored bool
	// Delay is how long to show the verdict before calling ContinueRecipe.
	Delay    time.Duration
	Attempts int
}

// QuizView is what the quiz screen shows.
type QuizView struct {
	Question         quiz.Question
	Index            int
	Total            int
	WrongAttempts    int
	MaxWrongAttempts int
	ElapsedSeconds   float64
	Revealing        bool
	RevealDelay      time.Duration
}

// Summary is the outcome of a finished session.
type Summary struct {
	SessionID      string
	Recipe         string
	Matched        bool
	RecipeAttempts int
	QuizPlayed     bool
	Correct        int
	Questions      int
	Stars          int
	ElapsedSeconds float64
}

// Event is one entry in the session log.
type Event struct {
	Stage   Stage
	Action  string
	Outcome string
}

type pending int

const (
	pendingNone pending = iota
	pendingRetry
	pendingServe
)

type Engine struct {
	settings Settings
	catalog  *models.Catalog
	rng      *rand.Rand
	now      func() time.Time
	log      logrus.FieldLogger

	id        string
	stage     Stage
	agents    []*motion.Agent
	order     models.Recipe
	selection *recipe.Selection
	pending   pending
	attempts  int
	quiz      *quiz.Session
	summary   Summary
	history   []Event
}

// Option customizes New.
type Option func(*Engine)

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock replaces time.Now for the quiz timer.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine checks the settings against the catalog and returns an engine
// waiting for Start.
func NewEngine(settings Settings, catalog *models.Catalog, opts ...Option) (*Engine, error) {
	if catalog == nil || len(catalog.Recipes) == 0 {
		return nil, fmt.Errorf("%w: catalog has no recipes", models.ErrInvalidCatalog)
	}
	if settings.Order != "" {
		if _, ok := catalog.Recipe(settings.Order); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRecipe, settings.Order)
		}
	}
	if err := settings.Motion.Validate(); err != nil {
		return nil, err
	}
	if err := motion.CheckArea(settings.Floor, settings.Motion.Inset); err != nil {
		return nil, err
	}
	if settings.QuizEnabled {
		if err := settings.Quiz.Validate(); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		settings: settings,
		catalog:  catalog,
		now:      time.Now,
		stage:    AwaitingStart,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		e.log = l
	}
	return e, nil
}

// Start opens the café floor and spawns the agents.
func (e *Engine) Start() error {
	if e.stage != AwaitingStart {
		return e.wrongStage("start")
	}

	agents := make([]*motion.Agent, 0, len(e.settings.Spawns))
	for _, sp := range e.settings.Spawns {
		a, err := motion.NewAgent(sp.Name, sp.At, e.settings.Floor, e.settings.Motion, e.rng)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", sp.Name, err)
		}
		agents = append(agents, a)
	}

	e.id = uuid.NewString()
	e.agents = agents
	e.summary = Summary{SessionID: e.id}
	e.history = nil
	e.enter(FreeRoam)
	e.record("start", fmt.Sprintf("%d agents on the floor", len(agents)))
	return nil
}

// Tick advances the agents while the floor is showing.
func (e *Engine) Tick(deltaMs float64) {
	if e.stage != FreeRoam {
		return
	}
	for _, a := range e.agents {
		a.Tick(deltaMs)
	}
}

// Agents returns snapshots sorted back to front.
func (e *Engine) Agents() []AgentView {
	views := make([]AgentView, 0, len(e.agents))
	for _, a := range e.agents {
		views = append(views, AgentView{
			Name:       a.Name,
			Position:   a.Position(),
			FacingLeft: a.FacingLeft(),
			State:      a.State(),
			Pose:       a.Pose(),
			Depth:      a.Depth(),
		})
	}
	slices.SortStableFunc(views, func(a, b AgentView) int {
		switch {
		case a.Depth < b.Depth:
			return -1
		case a.Depth > b.Depth:
			return 1
		}
		return 0
	})
	return views
}

// EnterKitchen takes the next order.
func (e *Engine) EnterKitchen() error {
	if e.stage != FreeRoam {
		return e.wrongStage("enter kitchen")
	}

	order, ok := e.catalog.Recipe(e.settings.Order)
	if !ok {
		order = e.catalog.Recipes[e.rng.Intn(len(e.catalog.Recipes))]
	}
	e.order = order
	e.selection = recipe.NewSelection()
	e.pending = pendingNone
	e.attempts = 0
	e.summary.Recipe = order.Name
	e.enter(RecipeChallenge)
	e.record("enter kitchen", "order: "+order.Name)
	return nil
}

// Order is the recipe being prepared.
func (e *Engine) Order() (models.Recipe, bool) {
	if e.stage != RecipeChallenge {
		return models.Recipe{}, false
	}
	return e.order, true
}

// Ingredients lists the ingredient bar.
func (e *Engine) Ingredients() []models.Ingredient {
	return slices.Clone(e.catalog.Ingredients)
}

// Selected reports whether an ingredient is on the plate.
func (e *Engine) Selected(id string) bool {
	return e.selection != nil && e.selection.Has(id)
}

// Selection returns the selected ingredient ids, sorted.
func (e *Engine) Selection() []string {
	if e.selection == nil {
		return nil
	}
	return e.selection.IDs()
}

// ToggleIngredient adds or removes an ingredient and reports whether it is now
// selected. Toggles are ignored while a verdict is showing.
func (e *Engine) ToggleIngredient(id string) (bool, error) {
	if e.stage != RecipeChallenge {
		return false, e.wrongStage("toggle ingredient")
	}
	if _, ok := e.catalog.Ingredient(id); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownIngredient, id)
	}
	if e.pending != pendingNone {
		return e.selection.Has(id), nil
	}
	return e.selection.Toggle(id), nil
}

// SubmitRecipe checks the plate against the order. The verdict stays up for
// the returned delay; the caller then calls ContinueRecipe.
func (e *Engine) SubmitRecipe() (RecipeOutcome, error) {
	if e.stage != RecipeChallenge {
		return RecipeOutcome{}, e.wrongStage("submit recipe")
	}
	if e.pending != pendingNone {
		return RecipeOutcome{Ignored: true, Attempts: e.attempts}, nil
	}

	e.attempts++
	e.summary.RecipeAttempts = e.attempts
	if !e.selection.Matches(e.order) {
		e.pending = pendingRetry
		e.record("serve", fmt.Sprintf("wrong plate %v", e.selection.IDs()))
		return RecipeOutcome{Delay: e.settings.RetryDelay, Attempts: e.attempts}, nil
	}

	e.pending = pendingServe
	e.summary.Matched = true
	e.record("serve", e.order.Name+" served")
	return RecipeOutcome{Matched: true, Delay: e.settings.SuccessDelay, Attempts: e.attempts}, nil
}

// ContinueRecipe acts on the verdict from SubmitRecipe: a wrong plate is
// cleared for another try, a matching one moves on to the quiz.
func (e *Engine) ContinueRecipe() error {
	if e.stage != RecipeChallenge {
		return e.wrongStage("continue recipe")
	}

	switch e.pending {
	case pendingRetry:
		e.pending = pendingNone
		e.selection.Clear()
		return nil
	case pendingServe:
		e.pending = pendingNone
		return e.startQuiz()
	default:
		return ErrNothingPending
	}
}

// RetryPending reports whether a wrong plate is showing.
func (e *Engine) RetryPending() bool { return e.pending == pendingRetry }

func (e *Engine) startQuiz() error {
	if !e.settings.QuizEnabled {
		e.enter(Result)
		return nil
	}

	s, err := quiz.Start(e.settings.Quiz, e.rng, quiz.WithClock(e.now), quiz.OnComplete(e.quizDone))
	if err != nil {
		return err
	}
	e.quiz = s
	e.summary.QuizPlayed = true
	e.summary.Questions = s.Len()
	e.enter(QuizChallenge)
	return nil
}

func (e *Engine) quizDone(p quiz.Progress) {
	e.summary.Correct = p.Correct
	e.summary.Stars = p.Stars
	e.summary.ElapsedSeconds = p.Elapsed.Seconds()
	e.record("quiz", fmt.Sprintf("%d/%d correct in %.1fs, %d stars", p.Correct, e.summary.Questions, p.Elapsed.Seconds(), p.Stars))
	e.enter(Result)
}

// SubmitAnswer grades a quiz answer.
func (e *Engine) SubmitAnswer(raw string) (quiz.SubmitResult, error) {
	if e.stage != QuizChallenge {
		return quiz.SubmitResult{}, e.wrongStage("submit answer")
	}
	q, _ := e.quiz.Current()
	res, err := e.quiz.Submit(raw)
	if err != nil {
		return res, err
	}
	if res.Outcome != quiz.Ignored {
		e.record("answer "+q.String(), fmt.Sprintf("%q %s", raw, res.Outcome))
	}
	return res, nil
}

// AdvanceQuiz moves past a revealed answer.
func (e *Engine) AdvanceQuiz() (quiz.Progress, error) {
	if e.stage != QuizChallenge {
		return quiz.Progress{}, e.wrongStage("advance quiz")
	}
	return e.quiz.Advance()
}

// Quiz describes the current question, or false outside the quiz.
func (e *Engine) Quiz() (QuizView, bool) {
	if e.stage != QuizChallenge {
		return QuizView{}, false
	}
	q, ok := e.quiz.Current()
	if !ok {
		return QuizView{}, false
	}
	return QuizView{
		Question:         q,
		Index:            e.quiz.Index(),
		Total:            e.quiz.Len(),
		WrongAttempts:    e.quiz.WrongAttempts(),
		MaxWrongAttempts: e.settings.Quiz.MaxWrongAttempts,
		ElapsedSeconds:   e.quiz.ElapsedSeconds(),
		Revealing:        e.quiz.AwaitingAdvance(),
		RevealDelay:      e.settings.Quiz.RevealDelay,
	}, true
}

// Result returns the session summary once the session has ended.
func (e *Engine) Result() (Summary, bool) {
	if e.stage != Result {
		return Summary{}, false
	}
	return e.summary, true
}

// Reset drops the agents, plate and quiz and waits for a new Start.
func (e *Engine) Reset() {
	if e.stage != AwaitingStart {
		e.record("reset", "from "+e.stage.String())
	}
	e.agents = nil
	e.order = models.Recipe{}
	e.selection = nil
	e.pending = pendingNone
	e.attempts = 0
	e.quiz = nil
	e.enter(AwaitingStart)
}

func (e *Engine) Stage() Stage { return e.stage }
func (e *Engine) SessionID() string { return e.id }
func (e *Engine) Floor() motion.Rect { return e.settings.Floor }

// History returns the most recent session events, oldest first.
func (e *Engine) History() []Event {
	return slices.Clone(e.history)
}

func (e *Engine) enter(next Stage) {
	if next == e.stage {
		return
	}
	e.log.WithFields(logrus.Fields{
		"session": e.id,
		"from":    e.stage.String(),
		"to":      next.String(),
	}).Info("stage changed")
	e.stage = next
}

func (e *Engine) record(action, outcome string) {
	e.history = append(e.history, Event{Stage: e.stage, Action: action, Outcome: outcome})
	if len(e.history) > historyLimit {
		e.history = slices.Delete(e.history, 0, len(e.history)-historyLimit)
	}
	e.log.WithFields(logrus.Fields{
		"session": e.id,
		"stage":   e.stage.String(),
	}).Debugf("%s: %s", action, outcome)
}

func (e *Engine) wrongStage(op string) error {
	return fmt.Errorf("%w: %s during %s", ErrWrongStage, op, e.stage)
}
