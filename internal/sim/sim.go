// Package sim plays a café session without a terminal, on a manual clock.
package sim

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/quiz"
)

// Clock is a manual clock handed to the engine with engine.WithClock.
type Clock struct {
	t time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{t: start} }

func (c *Clock) Now() time.Time { return c.t }

func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Script describes how the simulated player behaves.
type Script struct {
	// Roam is how long the player watches the floor before going to the kitchen.
	Roam time.Duration
	// Frame is the tick length while roaming.
	Frame time.Duration
	// WrongPlates is the number of incomplete plates served before the right one.
	WrongPlates int
	// Misses[i] is the number of wrong answers given to question i.
	Misses []int
	// Think is the time taken for each answer.
	Think time.Duration
}

// DefaultScript roams for five seconds, serves one wrong plate and answers
// every question right on the first try.
func DefaultScript() Script {
	return Script{
		Roam:        5 * time.Second,
		Frame:       time.Second / 60,
		WrongPlates: 1,
		Think:       2 * time.Second,
	}
}

// Run starts e and plays it to the result screen, narrating to out. The engine
// must have been built with clock.Now.
func Run(e *engine.Engine, clock *Clock, sc Script, out io.Writer) (engine.Summary, error) {
	if sc.Frame <= 0 {
		sc.Frame = time.Second / 60
	}

	fmt.Fprintln(out, "--- Floor ---")
	if err := e.Start(); err != nil {
		return engine.Summary{}, err
	}
	roam(e, clock, sc, out)

	fmt.Fprintln(out, "--- Kitchen ---")
	if err := e.EnterKitchen(); err != nil {
		return engine.Summary{}, err
	}
	if err := cook(e, clock, sc, out); err != nil {
		return engine.Summary{}, err
	}

	if e.Stage() == engine.QuizChallenge {
		fmt.Fprintln(out, "--- Quiz ---")
		if err := answer(e, clock, sc, out); err != nil {
			return engine.Summary{}, err
		}
	}

	sum, ok := e.Result()
	if !ok {
		return engine.Summary{}, fmt.Errorf("session ended in stage %s", e.Stage())
	}
	fmt.Fprintln(out, "--- Result ---")
	fmt.Fprintf(out, "Served %s after %d attempt(s)\n", sum.Recipe, sum.RecipeAttempts)
	if sum.QuizPlayed {
		fmt.Fprintf(out, "Quiz: %d/%d correct in %.1fs, %d stars\n", sum.Correct, sum.Questions, sum.ElapsedSeconds, sum.Stars)
	}
	return sum, nil
}

func roam(e *engine.Engine, clock *Clock, sc Script, out io.Writer) {
	frameMs := float64(sc.Frame) / float64(time.Millisecond)
	var elapsed, sinceReport time.Duration
	for elapsed < sc.Roam {
		clock.Advance(sc.Frame)
		e.Tick(frameMs)
		elapsed += sc.Frame
		sinceReport += sc.Frame
		if sinceReport >= time.Second {
			sinceReport = 0
			for _, a := range e.Agents() {
				fmt.Fprintf(out, "%5.1fs %-8s %-7s (%.0f, %.0f)\n", elapsed.Seconds(), a.Name, a.State, a.Position.X, a.Position.Y)
			}
		}
	}
}

func cook(e *engine.Engine, clock *Clock, sc Script, out io.Writer) error {
	order, _ := e.Order()
	fmt.Fprintf(out, "Order: %s %v\n", order.Name, order.Ingredients)

	for i := 0; i < sc.WrongPlates; i++ {
		// one ingredient short always mismatches
		if err := plate(e, order.Ingredients[:len(order.Ingredients)-1]); err != nil {
			return err
		}
		if err := serve(e, clock, out); err != nil {
			return err
		}
	}

	if err := plate(e, order.Ingredients); err != nil {
		return err
	}
	return serve(e, clock, out)
}

func plate(e *engine.Engine, ids []string) error {
	for _, id := range ids {
		if e.Selected(id) {
			continue
		}
		if _, err := e.ToggleIngredient(id); err != nil {
			return err
		}
	}
	return nil
}

func serve(e *engine.Engine, clock *Clock, out io.Writer) error {
	selected := e.Selection()
	res, err := e.SubmitRecipe()
	if err != nil {
		return err
	}
	verdict := "wrong plate"
	if res.Matched {
		verdict = "order up"
	}
	fmt.Fprintf(out, "Served %v: %s\n", selected, verdict)
	clock.Advance(res.Delay)
	return e.ContinueRecipe()
}

func answer(e *engine.Engine, clock *Clock, sc Script, out io.Writer) error {
	for e.Stage() == engine.QuizChallenge {
		view, ok := e.Quiz()
		if !ok {
			break
		}
		misses := 0
		if view.Index < len(sc.Misses) {
			misses = sc.Misses[view.Index]
		}

		revealed := false
		for i := 0; i < misses && !revealed; i++ {
			clock.Advance(sc.Think)
			res, err := e.SubmitAnswer(strconv.Itoa(view.Question.Answer + 1))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %d -> %s\n", view.Question, view.Question.Answer+1, res.Outcome)
			if res.Outcome == quiz.Revealed {
				revealed = true
				clock.Advance(view.RevealDelay)
				if _, err := e.AdvanceQuiz(); err != nil {
					return err
				}
			}
		}
		if revealed {
			continue
		}

		clock.Advance(sc.Think)
		res, err := e.SubmitAnswer(strconv.Itoa(view.Question.Answer))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %d -> %s\n", view.Question, view.Question.Answer, res.Outcome)
	}
	return nil
}
