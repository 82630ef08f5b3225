package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"quizsolver-backend/lib/browser"
	"quizsolver-backend/services/solver"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	solveEmail      *string
	solveSecret     *string
	solveMaxSeconds *int
	solveTimeoutMs  *int
)

func init() {
	solveEmail = solveCmd.Flags().String("email", "", "Email the answer is submitted under.")
	solveSecret = solveCmd.Flags().String("secret", "", "Shared secret sent with the submission.")
	solveMaxSeconds = solveCmd.Flags().Int("max-seconds", 170, "Overall wall-clock budget for the solve.")
	solveTimeoutMs = solveCmd.Flags().Int("render-timeout-ms", 0, "Page navigation timeout in milliseconds.")
	rootCmd.AddCommand(solveCmd)
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

var solveCmd = &cobra.Command{
	Use:   "solve <quiz url>",
	Short: "Renders a quiz page, resolves its answer and submits it.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := solver.Config{
			Secret:     *solveSecret,
			MaxSeconds: *solveMaxSeconds,
			Browser: browser.Config{
				NavigationTimeoutMs: *solveTimeoutMs,
			},
		}

		chrome := browser.New(cfg.Browser)
		startCtx, cancel := context.WithTimeout(cmd.Context(), time.Second*30)
		defer cancel()
		if err := chrome.Start(startCtx); err != nil {
			fatal("failed to start browser", err)
		}
		defer chrome.Close()

		s := solver.NewSolver(cfg, chrome)

		t1 := time.Now()
		report, err := s.Solve(cmd.Context(), solver.QuizRequest{
			Email:  *solveEmail,
			Secret: *solveSecret,
			URL:    args[0],
		})
		t2 := time.Now()
		if err != nil {
			fatal("failed to solve quiz", err)
		}
		slog.Info("solve time", "seconds", t2.Sub(t1).Seconds())

		renderReport(report)
	},
}

func renderReport(report solver.Report) {
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, fmt.Sprintf("%v", report[k])})
	}
	t.Render()
}
