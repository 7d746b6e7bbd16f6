package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/calclab/internal/batch"
	"github.com/san-kum/calclab/internal/config"
	"github.com/san-kum/calclab/internal/server"
	"github.com/san-kum/calclab/internal/storage"
)

var (
	workers int
	dataDir string
	saveRun bool
)

func newRunner() *batch.Runner {
	return batch.NewRunner(exprs,
		batch.WithWorkers(workers),
		batch.WithSubdivisions(cfg.Subdivisions),
		batch.WithLogger(logger),
	)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "run the jobs in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := batch.Load(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			run, err := newRunner().Run(ctx, f)
			if err != nil {
				return err
			}
			if err := printRun(run); err != nil {
				return err
			}

			if saveRun {
				st := storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
				id, err := st.Save(run)
				if err != nil {
					return err
				}
				fmt.Printf("\nrun id: %s\n", id)
			}
			if n := run.Failed(); n > 0 {
				return fmt.Errorf("%d of %d jobs failed", n, len(run.Results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", batch.DefaultWorkers, "jobs evaluated concurrently")
	cmd.Flags().BoolVar(&saveRun, "save", false, "save results to the run history")
	cmd.Flags().StringVar(&dataDir, "dir", storage.DefaultDir, "run history directory")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "rerun a job file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			w := batch.NewWatcher(args[0], newRunner(), func(run *batch.Run, err error) {
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					return
				}
				fmt.Println()
				if err := printRun(run); err != nil {
					logger.Warn("print failed", "err", err)
				}
			})
			return w.Watch(ctx)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", batch.DefaultWorkers, "jobs evaluated concurrently")
	return cmd
}

func printRun(run *batch.Run) error {
	title := run.Name
	if title == "" {
		title = "batch"
	}
	fmt.Printf("%s: %d jobs, %d failed, %v\n\n", title, len(run.Results), run.Failed(), run.Elapsed.Round(time.Microsecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tMETHOD\tEXPR\tINTERVAL\tVALUE")
	for _, res := range run.Results {
		value := strconv.FormatFloat(res.Value, 'f', 6, 64)
		if res.Err != nil {
			value = "error: " + res.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%s\n",
			res.Job.Name, res.Job.Method, res.Job.Expr, res.Job.A, res.Job.B, value)
	}
	return w.Flush()
}

func newRunsCmd() *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tJOBS\tFAILED\tDURATION")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dms\n",
					run.ID,
					run.Name,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Jobs,
					run.Failed,
					run.DurationMS,
				)
			}
			return w.Flush()
		},
	}
	runsCmd.PersistentFlags().StringVar(&dataDir, "dir", storage.DefaultDir, "run history directory")

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "print the results of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			recs, err := st.LoadResults(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("name: %s\n", meta.Name)
			fmt.Printf("time: %s\n\n", meta.Timestamp.Format("2006-01-02 15:04:05"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tMETHOD\tEXPR\tINTERVAL\tN\tVALUE")
			for _, r := range recs {
				value := strconv.FormatFloat(r.Value, 'f', 6, 64)
				if r.Error != "" {
					value = "error: " + r.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%d\t%s\n", r.Job, r.Method, r.Expr, r.A, r.B, r.N, value)
			}
			return w.Flush()
		},
	}
	runsCmd.AddCommand(showCmd)
	return runsCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			ctx, stop := signalContext()
			defer stop()
			return server.New(cfg, exprs, logger).Run(ctx, addr)
		},
	}
	cmd.Flags().String("addr", config.DefaultAddr, "listen address (overrides server.addr)")
	return cmd
}
