package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alejandrodnm/quantohedge/internal/adapters/notify"
)

func newPricesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Fetch starting prices and print the position summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			a.reporter.Summary(a.session.Summary())
			if a.format != notify.FormatJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "  PnL at exit scenario: $%.2f\n", a.session.PnL())
			}
			return nil
		},
	}
	a.pos.register(cmd)
	return cmd
}

func newSurfaceCmd(a *app) *cobra.Command {
	var step int
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Print the PnL surface over the BTC/ETH price grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			if step <= 0 {
				step = a.cfg.Grid.TableStep
			}
			a.reporter.Surface(a.session.Surface(a.cfg.ScenarioGrid()), step)
			return nil
		},
	}
	a.pos.register(cmd)
	cmd.Flags().IntVar(&step, "step", 0, "print every n-th grid point (default from config)")
	return cmd
}

func newOptimizeCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search the option legs that maximize the worst-case PnL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			run, err := a.session.Optimize(ctx)
			if err != nil {
				return err
			}
			a.reporter.Optimization(run)
			a.reporter.Summary(a.session.Summary())
			return nil
		},
	}
	a.pos.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the search after this long (0 = no limit)")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored optimization runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := a.store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			a.reporter.History(runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
