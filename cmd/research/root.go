package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/app"
	"github.com/kailas-cloud/researcher/internal/config"
	"github.com/kailas-cloud/researcher/internal/domain"
	logpkg "github.com/kailas-cloud/researcher/internal/logger"
	"github.com/kailas-cloud/researcher/internal/version"
)

const defaultQuestion = "What is AI?"

// runner answers one question.
type runner interface {
	Run(ctx context.Context, question string) (domain.Answer, error)
}

// buildFunc assembles the pipeline; replaced in tests.
type buildFunc func(ctx context.Context, env string, noCache bool, verbose bool) (runner, func(), error)

func newRootCmd() *cobra.Command {
	return newRootCmdWith(buildPipeline)
}

func newRootCmdWith(build buildFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "research",
		Short:        "Answer questions from web search with cited sources",
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.AddCommand(newAskCmd(build))
	return root
}

func newAskCmd(build buildFunc) *cobra.Command {
	var (
		env     string
		noCache bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Run the research pipeline once and print the answer as JSON",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				question = defaultQuestion
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r, closeFn, err := build(ctx, env, noCache, verbose)
			if err != nil {
				return err
			}
			defer closeFn()

			ans, err := r.Run(ctx, question)
			if err != nil {
				return fmt.Errorf("research: %w", err)
			}
			return printAnswer(cmd.OutOrStdout(), ans)
		},
	}

	cmd.Flags().StringVar(&env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the answer cache")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	return cmd
}

func printAnswer(w io.Writer, ans domain.Answer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ans); err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	return nil
}

func buildPipeline(ctx context.Context, env string, noCache, verbose bool) (runner, func(), error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, err
	}

	level := ""
	if verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.Build(ctx, cfg, app.Options{NoCache: noCache}, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	logger.Debug("Pipeline ready", zap.String("env", env), zap.Bool("no_cache", noCache))

	return a.Research, func() {
		a.Close()
		_ = logger.Sync()
	}, nil
}
