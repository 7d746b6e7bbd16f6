package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/calclab/internal/cache"
	"github.com/san-kum/calclab/internal/config"
	"github.com/san-kum/calclab/internal/quad"
)

const (
	fieldExpr = iota
	fieldA
	fieldB
	numFields
)

var fieldNames = [numFields]string{"f(x)", "a", "b"}

// resultMsg carries a finished computation back to Update. seq discards
// results that were overtaken by a later edit.
type resultMsg struct {
	seq int
	vis *quad.Visualization
	err error
}

// App is the interactive integrator: edit f(x) and the bounds, and the
// plot, integral and optional Riemann rectangles follow every change.
type App struct {
	cfg      *config.Config
	cache    *cache.Cache
	examples []config.Example

	inputs  [numFields]string
	focus   int
	steps   int
	riemann bool
	example int

	seq    int
	vis    *quad.Visualization
	err    error
	width  int
	height int
	theme  Theme
}

// NewApp starts on the first example.
func NewApp(cfg *config.Config, c *cache.Cache) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if c == nil {
		c = cache.New(cfg.CacheSize)
	}
	a := &App{
		cfg:      cfg,
		cache:    c,
		examples: cfg.AllExamples(),
		steps:    quad.ClampSteps(cfg.RiemannSteps),
		width:    cfg.Plot.Width,
		height:   cfg.Plot.Height,
		theme:    GetTheme(cfg.Plot.Theme),
	}
	a.loadExample(0)
	return a
}

func (a *App) loadExample(i int) {
	if len(a.examples) == 0 {
		a.inputs = [numFields]string{"x^2", "0", "1"}
		return
	}
	a.example = (i%len(a.examples) + len(a.examples)) % len(a.examples)
	ex := a.examples[a.example]
	a.inputs[fieldExpr] = ex.Expr
	a.inputs[fieldA] = strconv.FormatFloat(ex.A, 'g', -1, 64)
	a.inputs[fieldB] = strconv.FormatFloat(ex.B, 'g', -1, 64)
}

func (a *App) Init() tea.Cmd { return a.recompute() }

// recompute snapshots the inputs and evaluates them off the update loop.
func (a *App) recompute() tea.Cmd {
	a.seq++
	seq := a.seq
	text, aText, bText := a.inputs[fieldExpr], a.inputs[fieldA], a.inputs[fieldB]
	opts := a.cfg.VisualizeOptions(a.riemann)
	if a.riemann {
		opts.RiemannSteps = a.steps
	}
	c := a.cache
	return func() tea.Msg {
		vis, err := compute(c, text, aText, bText, opts)
		return resultMsg{seq: seq, vis: vis, err: err}
	}
}

func compute(c *cache.Cache, text, aText, bText string, opts quad.Options) (*quad.Visualization, error) {
	f, err := c.Get(text)
	if err != nil {
		return nil, err
	}
	lo, err := parseBound("a", aText)
	if err != nil {
		return nil, err
	}
	hi, err := parseBound("b", bText)
	if err != nil {
		return nil, err
	}
	return quad.Visualize(f, lo, hi, opts)
}

func parseBound(name, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("bound %s: %q is not a number", name, text)
	}
	return v, nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width = max(msg.Width-12, 20)
		a.height = max(msg.Height-12, 5)
		return a, nil
	case resultMsg:
		if msg.seq == a.seq {
			a.vis, a.err = msg.vis, msg.err
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "tab", "down":
		a.focus = (a.focus + 1) % numFields
		return nil
	case "shift+tab", "up":
		a.focus = (a.focus + numFields - 1) % numFields
		return nil
	case "ctrl+r":
		a.riemann = !a.riemann
	case "ctrl+n", "pgdown":
		a.loadExample(a.example + 1)
	case "ctrl+p", "pgup":
		a.loadExample(a.example - 1)
	case "ctrl+t":
		a.theme = NextTheme(a.theme)
		CurrentTheme = a.theme
		return nil
	case "]", "right":
		if !a.riemann || a.steps >= quad.MaxRiemannSteps {
			return nil
		}
		a.steps++
	case "[", "left":
		if !a.riemann || a.steps <= quad.MinRiemannSteps {
			return nil
		}
		a.steps--
	case "backspace":
		in := []rune(a.inputs[a.focus])
		if len(in) == 0 {
			return nil
		}
		a.inputs[a.focus] = string(in[:len(in)-1])
	case "ctrl+u":
		a.inputs[a.focus] = ""
	default:
		if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
			return nil
		}
		a.inputs[a.focus] += string(msg.Runes)
	}
	return a.recompute()
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString("\n  " + Title.Render("CALCLAB") + "  " + Subtle.Render("definite integrals, trapezoidal rule") + "\n\n")

	for i := 0; i < numFields; i++ {
		label := fmt.Sprintf("%-5s", fieldNames[i])
		value := a.inputs[i]
		if i == a.focus {
			b.WriteString("  " + a.theme.accent().Render("▸ "+label) + " " + Selected.Render(value+"_") + "\n")
		} else {
			b.WriteString("    " + KeyHint.Render(label) + " " + value + "\n")
		}
	}
	b.WriteString("\n")

	switch {
	case a.err != nil:
		b.WriteString("  " + ErrorText.Render(a.err.Error()) + "\n")
	case a.vis != nil:
		b.WriteString("  " + Metric("∫ f(x) dx =", strconv.FormatFloat(a.vis.Integral, 'f', 6, 64)))
		if r := a.vis.Riemann; r != nil {
			b.WriteString("   " + Metric(fmt.Sprintf("riemann n=%d", len(r.Rectangles)), strconv.FormatFloat(r.Total, 'f', 6, 64)))
			b.WriteString("   " + Metric("error", strconv.FormatFloat(r.Total-a.vis.Integral, 'e', 2, 64)))
		}
		b.WriteString("\n\n")
		b.WriteString(Braille(a.vis, a.width, a.height))
		if a.vis.Riemann != nil {
			b.WriteString("\n  " + Sparkline(a.vis.Riemann, a.width) + "\n")
		}
	}

	b.WriteString("\n  " + Hints("tab", "field", "^r", "riemann", "[ ]", "rectangles", "^n/^p", "example", "^t", "theme", "esc", "quit") + "\n")
	return b.String()
}

// RunInteractive blocks until the user quits.
func RunInteractive(cfg *config.Config, c *cache.Cache) error {
	if cfg != nil {
		SetTheme(cfg.Plot.Theme)
	}
	_, err := tea.NewProgram(NewApp(cfg, c), tea.WithAltScreen()).Run()
	return err
}
