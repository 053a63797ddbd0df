package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/lazyseq/demo"
	"github.com/kbukum/lazyseq/logger"
)

func newRunCommand(root *rootFlags) *cobra.Command {
	var (
		mode      string
		source    []int
		threshold int
		factor    int
		take      int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the filter → map → take scenario",
		Long: `Runs the scenario, printing every mapped value at the moment the map
stage produces it. Flags override the scenario from the config file.`,
		Example: `  lazyseq run
  lazyseq run --mode eager
  lazyseq run --mode both --source 5,6,7,8 --threshold 5 --factor 10 --take 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(root)
			if err != nil {
				return err
			}

			sc := cfg.Scenario
			flags := cmd.Flags()
			if flags.Changed("mode") {
				sc.Mode = mode
			}
			if flags.Changed("source") {
				sc.Source = source
			}
			if flags.Changed("threshold") {
				sc.Threshold = threshold
			}
			if flags.Changed("factor") {
				sc.Factor = factor
			}
			if flags.Changed("take") {
				sc.Take = take
			}

			ctx := cmd.Context()
			tel, err := setupTelemetry(ctx, cfg.Observability)
			if err != nil {
				return err
			}
			defer tel.shutdown(context.WithoutCancel(ctx), log)

			opts := []demo.Option{demo.WithLogger(logger.Get(componentDemo))}
			if tel.metrics != nil {
				opts = append(opts, demo.WithRecorder(tel.metrics))
			}
			return runScenario(ctx, cmd.OutOrStdout(), log, sc, opts...)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "evaluation mode: lazy, eager or both")
	cmd.Flags().IntSliceVar(&source, "source", nil, "source values, e.g. 0,1,2,3,4")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "keep values greater than this")
	cmd.Flags().IntVar(&factor, "factor", 0, "multiply kept values by this")
	cmd.Flags().IntVar(&take, "take", 0, "number of results to keep")

	return cmd
}

func runScenario(ctx context.Context, out io.Writer, log *logger.Logger, sc demo.Scenario, opts ...demo.Option) error {
	result, err := demo.Evaluate(ctx, sc, out, opts...)
	if err != nil {
		return err
	}
	switch r := result.(type) {
	case *demo.Comparison:
		logReport(log, r.Lazy)
		logReport(log, r.Eager)
	case *demo.Report:
		fmt.Fprintln(out)
		logReport(log, r)
	}
	return nil
}

func logReport(log *logger.Logger, r *demo.Report) {
	log.Info("scenario finished", logger.Fields(
		logger.FieldRunID, r.RunID,
		logger.FieldMode, r.Mode,
		"result", fmt.Sprint(r.Result),
		"printed", len(r.Printed),
		"source_pulls", r.SourcePulls,
		logger.FieldDuration, r.Elapsed.Milliseconds(),
	))
}
