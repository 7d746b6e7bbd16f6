package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/calclab/internal/export"
	"github.com/san-kum/calclab/internal/quad"
	"github.com/san-kum/calclab/internal/viz"
)

func newIntegrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "integrate EXPR A B",
		Short:   "trapezoidal integral of EXPR from A to B",
		Example: "  calclab integrate 'x^2' 0 2\n  calclab integrate --n 50 -- 'x^3 - 2x^2 + x' -1 3",
		Args:    cobra.ExactArgs(3),
		RunE:    runIntegrate,
	}
	cmd.Flags().Int("n", quad.DefaultSubdivisions, "number of trapezoid panels")
	return cmd
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	f, err := exprs.Get(args[0])
	if err != nil {
		return err
	}
	a, b, err := parseBounds(args)
	if err != nil {
		return err
	}
	n := intFlag(cmd, "n", cfg.Subdivisions)

	start := time.Now()
	value, err := quad.Integrate(f, a, b, n)
	if err != nil {
		return err
	}
	logger.Debug("integrated", "expr", f.String(), "n", n, "elapsed", time.Since(start))

	fmt.Printf("f(x) = %s\n", f)
	fmt.Printf("interval: [%g, %g]\n", a, b)
	fmt.Printf("subdivisions: %d\n", n)
	fmt.Printf("value: %s\n", strconv.FormatFloat(value, 'f', 6, 64))
	return nil
}

func newRiemannCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "riemann EXPR A B",
		Short:   "midpoint Riemann sum with per-rectangle geometry",
		Example: "  calclab riemann --table 'sin(x)' 0 3.14159\n  calclab riemann --n 20 -- 'x^2' -1 1",
		Args:    cobra.ExactArgs(3),
		RunE:    runRiemann,
	}
	cmd.Flags().Int("n", quad.DefaultRiemannSteps, "number of rectangles (5-50)")
	cmd.Flags().Bool("table", false, "print every rectangle")
	return cmd
}

func runRiemann(cmd *cobra.Command, args []string) error {
	f, err := exprs.Get(args[0])
	if err != nil {
		return err
	}
	a, b, err := parseBounds(args)
	if err != nil {
		return err
	}
	n := quad.ClampSteps(intFlag(cmd, "n", cfg.RiemannSteps))

	res, err := quad.Riemann(f, a, b, n)
	if err != nil {
		return err
	}

	fmt.Printf("f(x) = %s on [%g, %g]\n", f, a, b)
	fmt.Printf("rectangles: %d  width: %.6f\n", len(res.Rectangles), res.Width)
	fmt.Printf("total: %.6f\n", res.Total)
	fmt.Println(viz.Sparkline(res, len(res.Rectangles)))

	if table, _ := cmd.Flags().GetBool("table"); table {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "#\tLEFT\tMID\tHEIGHT\tAREA\t")
		for _, r := range res.Rectangles {
			fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.6f\t%.6f\t\n", r.Index, r.Left, r.Mid(), r.Height, r.Area)
		}
		return w.Flush()
	}
	return nil
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPR X...",
		Short: "evaluate EXPR at each X",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exprs.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("f(x) = %s\n", f)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "X\tF(X)")
			for _, arg := range args[1:] {
				x, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					fmt.Fprintf(w, "%s\tnot a number\n", arg)
					continue
				}
				if y, err := f.Eval(x); err != nil {
					fmt.Fprintf(w, "%g\t%v\n", x, err)
				} else {
					fmt.Fprintf(w, "%g\t%s\n", x, strconv.FormatFloat(y, 'g', 10, 64))
				}
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot EXPR A B",
		Short: "plot EXPR over [A, B] with its integral",
		Args:  cobra.ExactArgs(3),
		RunE:  runPlot,
	}
	cmd.Flags().Int("n", 0, "overlay n Riemann rectangles (0 for none)")
	cmd.Flags().Bool("braille", false, "braille canvas instead of a line chart")
	cmd.Flags().Int("width", 0, "plot width (default from config)")
	cmd.Flags().Int("height", 0, "plot height (default from config)")
	return cmd
}

func runPlot(cmd *cobra.Command, args []string) error {
	v, err := visualize(cmd, args)
	if err != nil {
		return err
	}
	width := intFlag(cmd, "width", cfg.Plot.Width)
	height := intFlag(cmd, "height", cfg.Plot.Height)

	caption := fmt.Sprintf("∫ %s dx on [%g, %g] = %.6f", args[0], v.A, v.B, v.Integral)
	if v.Riemann != nil {
		caption += fmt.Sprintf("  riemann(%d) = %.6f", len(v.Riemann.Rectangles), v.Riemann.Total)
	}

	if braille, _ := cmd.Flags().GetBool("braille"); braille {
		fmt.Print(viz.Braille(v, width, height))
		fmt.Println(caption)
		return nil
	}
	fmt.Println(viz.Graph(v, width, height, caption))
	return nil
}

// visualize compiles EXPR, reads the bounds and runs quad.Visualize with
// the --n flag as the rectangle count.
func visualize(cmd *cobra.Command, args []string) (*quad.Visualization, error) {
	f, err := exprs.Get(args[0])
	if err != nil {
		return nil, err
	}
	a, b, err := parseBounds(args)
	if err != nil {
		return nil, err
	}
	n, _ := cmd.Flags().GetInt("n")
	opts := cfg.VisualizeOptions(n > 0)
	if n > 0 {
		opts.RiemannSteps = quad.ClampSteps(n)
	}
	v, err := quad.Visualize(f, a, b, opts)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "list example integrands",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEXPR\tA\tB")
			for _, ex := range cfg.AllExamples() {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\n", ex.Name, ex.Expr, ex.A, ex.B)
			}
			return w.Flush()
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export EXPR A B",
		Short: "export the visualization as json, csv or svg",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if format == export.FormatCSV && !cmd.Flags().Changed("n") {
				if err := cmd.Flags().Set("n", strconv.Itoa(cfg.RiemannSteps)); err != nil {
					return err
				}
			}

			v, err := visualize(cmd, args)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			doc := export.NewDocument(args[0], cfg.Subdivisions, v)
			if err := export.ToFile(out, format, doc); err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(os.Stderr, "wrote %s (%s)\n", out, format)
			}
			return nil
		},
	}
	cmd.Flags().String("format", string(export.FormatJSON), "json, csv or svg")
	cmd.Flags().StringP("out", "o", "", "output file (stdout when empty)")
	cmd.Flags().Int("n", 0, "include n Riemann rectangles (csv always has them)")
	return cmd
}
