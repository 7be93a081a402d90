package sim

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tinybot-ca/cosy-restaurant/internal/config"
	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/models"
)

func newSession(t *testing.T, seed int64, quizEnabled bool) (*engine.Engine, *Clock) {
	t.Helper()
	cfg := config.Default()
	cfg.Quiz.Enabled = quizEnabled
	settings, err := cfg.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	catalog, err := models.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	clock := NewClock(time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC))
	e, err := engine.NewEngine(settings, catalog,
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithClock(clock.Now),
	)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e, clock
}

func TestRunDefaultScript(t *testing.T) {
	e, clock := newSession(t, 1, true)
	var out bytes.Buffer

	sum, err := Run(e, clock, DefaultScript(), &out)
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if !sum.Matched || sum.RecipeAttempts != 2 {
		t.Fatalf("recipe summary %+v", sum)
	}
	if sum.Correct != 3 || sum.Stars != 5 || sum.ElapsedSeconds != 6 {
		t.Fatalf("quiz summary %+v", sum)
	}
	for _, want := range []string{"--- Floor ---", "bear", "wrong plate", "order up", "5 stars"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("narration missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunWithMisses(t *testing.T) {
	e, clock := newSession(t, 2, true)
	sc := DefaultScript()
	sc.WrongPlates = 0
	sc.Misses = []int{3, 1}

	sum, err := Run(e, clock, sc, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 3 misses and a reveal, then 1 miss and a hit, then a hit
	if sum.Correct != 2 || sum.Stars != 2 || sum.ElapsedSeconds != 14 {
		t.Fatalf("summary %+v", sum)
	}
	if sum.RecipeAttempts != 1 {
		t.Fatalf("recipe attempts = %d", sum.RecipeAttempts)
	}
}

func TestRunWithoutQuiz(t *testing.T) {
	e, clock := newSession(t, 3, false)
	var out bytes.Buffer
	sum, err := Run(e, clock, DefaultScript(), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.QuizPlayed || strings.Contains(out.String(), "--- Quiz ---") {
		t.Fatalf("quiz ran while disabled: %+v", sum)
	}
}
