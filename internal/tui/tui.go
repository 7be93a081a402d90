package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/motion"
	"github.com/tinybot-ca/cosy-restaurant/internal/quiz"
)

const (
	floorCols = 60
	floorRows = 12
	logWidth  = 36
)

type model struct {
	engine    *engine.Engine
	frame     time.Duration
	lastFrame time.Time
	textInput textinput.Model
	viewport  viewport.Model
	cursor    int
	notice    string
	err       error
	width     int
	height    int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	floorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8B5A2B")).
			Foreground(lipgloss.Color("#EEEEEE"))

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D787")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1)

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))
)

func NewModel(eng *engine.Engine, frame time.Duration) model {
	ti := textinput.New()
	ti.Placeholder = "your answer"
	ti.CharLimit = 6
	ti.Width = 10

	if frame <= 0 {
		frame = time.Second / 60
	}

	return model{
		engine:    eng,
		frame:     frame,
		textInput: ti,
		viewport:  viewport.New(logWidth, floorRows),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.nextFrame())
}

type frameMsg time.Time

// recipeContinueMsg arrives once a plate verdict has been shown long enough.
type recipeContinueMsg struct{}

// quizAdvanceMsg arrives once a revealed answer has been shown long enough.
type quizAdvanceMsg struct{}

func (m model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		if m.err != nil {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Height = max(floorRows, msg.Height-8)

	case frameMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			m.engine.Tick(float64(now.Sub(m.lastFrame)) / float64(time.Millisecond))
		}
		m.lastFrame = now
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, m.nextFrame()

	case recipeContinueMsg:
		if err := m.engine.ContinueRecipe(); err != nil {
			m.err = err
			return m, nil
		}
		m.notice = ""
		if m.engine.Stage() == engine.QuizChallenge {
			m.textInput.Reset()
			cmd = m.textInput.Focus()
			return m, cmd
		}
		return m, nil

	case quizAdvanceMsg:
		if _, err := m.engine.AdvanceQuiz(); err != nil {
			m.err = err
			return m, nil
		}
		m.notice = ""
		return m, nil
	}

	if m.engine.Stage() == engine.QuizChallenge {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.engine.Stage() {
	case engine.AwaitingStart:
		if msg.Type == tea.KeyEnter {
			if err := m.engine.Start(); err != nil {
				m.err = err
			}
		}

	case engine.FreeRoam:
		if msg.Type == tea.KeyEnter || msg.String() == "k" {
			if err := m.engine.EnterKitchen(); err != nil {
				m.err = err
			}
			m.cursor = 0
		}

	case engine.RecipeChallenge:
		return m.handleKitchenKey(msg)

	case engine.QuizChallenge:
		if msg.Type != tea.KeyEnter {
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		return m.submitAnswer()

	case engine.Result:
		if msg.Type == tea.KeyEnter || msg.String() == "r" {
			m.engine.Reset()
			m.notice = ""
		}
	}
	return m, nil
}

func (m model) handleKitchenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ings := m.engine.Ingredients()

	switch msg.Type {
	case tea.KeyUp, tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown, tea.KeyRight:
		if m.cursor < len(ings)-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeySpace:
		return m.toggle(m.cursor)
	case tea.KeyEnter:
		out, err := m.engine.SubmitRecipe()
		if err != nil {
			m.err = err
			return m, nil
		}
		if out.Ignored {
			return m, nil
		}
		if out.Matched {
			m.notice = "Order up!"
		} else {
			m.notice = "That's not quite right. Try again!"
		}
		return m, after(out.Delay, recipeContinueMsg{})
	}

	if r := msg.Runes; len(r) == 1 && unicode.IsDigit(r[0]) {
		return m.toggle(int(r[0]-'1'))
	}
	return m, nil
}

func (m model) toggle(i int) (tea.Model, tea.Cmd) {
	ings := m.engine.Ingredients()
	if i < 0 || i >= len(ings) {
		return m, nil
	}
	m.cursor = i
	if _, err := m.engine.ToggleIngredient(ings[i].ID); err != nil {
		m.err = err
	}
	return m, nil
}

func (m model) submitAnswer() (tea.Model, tea.Cmd) {
	res, err := m.engine.SubmitAnswer(m.textInput.Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	if res.Outcome == quiz.Ignored {
		return m, nil
	}
	m.textInput.Reset()

	switch res.Outcome {
	case quiz.Correct:
		m.notice = "Correct!"
		if m.engine.Stage() == engine.Result {
			m.notice = ""
			m.textInput.Blur()
		}
	case quiz.Retry:
		view, _ := m.engine.Quiz()
		m.notice = fmt.Sprintf("Not quite. Attempt %d of %d.", res.Attempts, view.MaxWrongAttempts)
	case quiz.Revealed:
		view, _ := m.engine.Quiz()
		m.notice = fmt.Sprintf("The answer was %d.", res.Answer)
		return m, after(view.RevealDelay, quizAdvanceMsg{})
	}
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.\n", m.err)
	}

	var s, help string
	switch m.engine.Stage() {
	case engine.AwaitingStart:
		s = titleStyle.Render("Cosy Restaurant") + "\n\nThe café is about to open."
		help = "Enter: open the café, Esc: quit"

	case engine.FreeRoam:
		s = lipgloss.JoinHorizontal(lipgloss.Top, m.renderFloor(), logStyle.Render(m.viewport.View()))
		help = "k or Enter: go to the kitchen, Esc: quit"

	case engine.RecipeChallenge:
		s = lipgloss.JoinHorizontal(lipgloss.Top, m.renderKitchen(), logStyle.Render(m.viewport.View()))
		help = "1-9 or Space: toggle ingredient, arrows: move, Enter: serve"

	case engine.QuizChallenge:
		s = m.renderQuiz()
		help = "Type the answer and press Enter"

	case engine.Result:
		s = m.renderResult()
		help = "r or Enter: back to the door, Esc: quit"
	}

	if m.notice != "" {
		s += "\n\n" + noticeStyle.Render(m.notice)
	}
	return "\n" + s + "\n\n" + helpStyle.Render(help) + "\n"
}

func (m model) renderFloor() string {
	grid := make([][]rune, floorRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", floorCols))
	}

	area := m.engine.Floor()
	// back to front, so nearer agents overwrite farther ones
	for _, a := range m.engine.Agents() {
		col := int((a.Position.X - area.X) / area.Width * float64(floorCols-2))
		row := int((a.Position.Y - area.Y) / area.Height * float64(floorRows-1))
		if a.Pose.Offset > 1 && row > 0 {
			row--
		}
		col = min(max(col, 0), floorCols-2)
		row = min(max(row, 0), floorRows-1)

		glyph := unicode.ToUpper(firstRune(a.Name))
		if a.Pose.Squash < 1 {
			glyph = unicode.ToLower(glyph)
		}
		mark := ' '
		if a.State == motion.Walking {
			mark = '>'
			if a.FacingLeft {
				mark = '<'
			}
		}
		if a.FacingLeft {
			grid[row][col], grid[row][col+1] = mark, glyph
		} else {
			grid[row][col], grid[row][col+1] = glyph, mark
		}
	}

	lines := make([]string, len(grid))
	for i, r := range grid {
		lines[i] = string(r)
	}
	return floorStyle.Render(strings.Join(lines, "\n"))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}

func (m model) renderKitchen() string {
	order, _ := m.engine.Order()
	ings := m.engine.Ingredients()
	names := make(map[string]string, len(ings))
	for _, ing := range ings {
		names[ing.ID] = ing.Name
	}

	required := make([]string, len(order.Ingredients))
	for i, id := range order.Ingredients {
		required[i] = names[id]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ORDER") + "\n")
	fmt.Fprintf(&b, "%s: %s\n\n", order.Name, strings.Join(required, ", "))
	b.WriteString(titleStyle.Render("INGREDIENTS") + "\n")
	for i, ing := range ings {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		line := fmt.Sprintf("%s%d. [ ] %s", pointer, i+1, ing.Name)
		if m.engine.Selected(ing.ID) {
			line = selectedStyle.Render(fmt.Sprintf("%s%d. [x] %s", pointer, i+1, ing.Name))
		}
		b.WriteString(line + "\n")
	}
	return lipgloss.NewStyle().Width(floorCols).Render(b.String())
}

func (m model) renderQuiz() string {
	view, ok := m.engine.Quiz()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("QUESTION %d/%d", view.Index+1, view.Total)) + "\n\n")
	fmt.Fprintf(&b, "  %s\n\n", view.Question)
	fmt.Fprintf(&b, "  %s\n\n", m.textInput.View())
	fmt.Fprintf(&b, "  Time: %.1fs", view.ElapsedSeconds)
	if view.WrongAttempts > 0 {
		fmt.Fprintf(&b, "   Misses: %d", view.WrongAttempts)
	}
	return b.String()
}

func (m model) renderResult() string {
	sum, ok := m.engine.Result()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("RESULT") + "\n\n")
	fmt.Fprintf(&b, "%s served after %d attempt(s)\n", sum.Recipe, sum.RecipeAttempts)
	if sum.QuizPlayed {
		fmt.Fprintf(&b, "Quiz: %d/%d correct in %.1fs\n\n", sum.Correct, sum.Questions, sum.ElapsedSeconds)
		b.WriteString(starStyle.Render(stars(sum.Stars)))
	}
	return b.String()
}

func stars(n int) string {
	n = min(max(n, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func (m model) renderLog() string {
	var b strings.Builder
	for _, ev := range m.engine.History() {
		fmt.Fprintf(&b, "%s: %s\n", ev.Action, ev.Outcome)
	}
	return lipgloss.NewStyle().Width(logWidth).Render(b.String())
}

// Run starts the frame loop and blocks until the player quits.
func Run(eng *engine.Engine, frame time.Duration) error {
	p := tea.NewProgram(NewModel(eng, frame), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
