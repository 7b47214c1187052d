package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/solhydra/internal/config"
	"github.com/nao1215/solhydra/internal/database"
	solog "github.com/nao1215/solhydra/internal/log"
	"github.com/nao1215/solhydra/internal/pipeline"
	"github.com/nao1215/solhydra/internal/report"
	"github.com/nao1215/solhydra/internal/workspace"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [tool ...]",
		Short: "Build the report for an analysis workspace",
		Long: `Report reads an analysis workspace and writes one combined report.

The workspace must contain:
  input/contracts_flatten/   flattened source of every contract (required)
  input/contracts_combine/   combined source (optional)
  input/contracts/           original source (optional)
  output/<tool>/<contract>   raw output of each tool (optional)

The report is written to solhydra_report.html in the destination
directory, or solhydra_report.json / solhydra_report.md with --json or
--markdown. Tool names given as arguments restrict the report to those
tools.

Examples:
  # Report every tool that produced output
  solhydra report --workspace ./work --dest-dir ./out

  # Only mythril and solium
  solhydra report -w ./work -d ./out mythril solium

  # Machine-readable document model
  solhydra report -w ./work -d ./out --json

  # Also print the JSON report ahead of the summary
  solhydra report -w ./work -d ./out --json --stdout

  # Use a custom configuration file
  solhydra report -w ./work -d ./out -c myconfig.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("workspace", "w", "",
		"Analysis workspace directory containing input/ and output/")
	cmd.Flags().StringP("dest-dir", "d", "",
		"Directory the report is written to (created if needed)")
	cmd.Flags().IntP("concurrency", "p", config.DefaultConcurrency,
		"Number of contracts read concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .solhydra in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Write a JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a Markdown summary (mutually exclusive with --json)")
	cmd.Flags().Bool("stdout", false,
		"Also print the report to standard output before the summary")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().Bool("log-json", false,
		"Write log records as JSON")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := solog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if cfg.LogJSON {
		logger = solog.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runReport(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.WorkspaceDir, err = cmd.Flags().GetString("workspace")
	if err != nil {
		return nil, err
	}

	cfg.DestDir, err = cmd.Flags().GetString("dest-dir")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist. Otherwise a missing
	// file means the built-in defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.PrintReport, err = cmd.Flags().GetBool("stdout")
	if err != nil {
		return nil, err
	}

	cfg.LogJSON, err = cmd.Flags().GetBool("log-json")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Tools = args

	return cfg, nil
}

// runReport builds the report described by cfg and prints a summary to out.
func runReport(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	logger.Info("building report",
		"workspace", cfg.WorkspaceDir,
		"dest", cfg.ReportPath(),
		"tools", cfg.Tools,
	)

	ws, err := workspace.Open(cfg.WorkspaceDir,
		workspace.WithExcludedUnits(cfg.File.ExcludeUnits...),
		workspace.WithConcurrency(cfg.Concurrency),
		workspace.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	format, newWriter := reportWriter(cfg)
	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineTools(cfg.Tools),
		pipeline.WithPipelineContentTypes(cfg.File.ContentTypes()),
		pipeline.WithPipelineWriter(format, newWriter),
	}

	// History is best effort: a database that cannot be opened costs the
	// history entry, never the report.
	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled: failed to open database", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			configOpts = append(configOpts, pipeline.WithPipelineHistory(db))
		}
	}

	p := pipeline.DefaultPipeline(cfg.ReportPath(),
		[]pipeline.Option{pipeline.WithLogger(logger)},
		configOpts...,
	)

	run := pipeline.NewRun(ws)
	if err := p.Execute(ctx, run); err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("report cancelled")
		}
		return err
	}

	var writers []report.Writer
	if cfg.PrintReport {
		writers = append(writers, newWriter(out))
	}
	writers = append(writers, report.NewSummaryWriter(out,
		report.WithReportPath(run.ReportPath),
		report.WithVerbose(cfg.Verbose),
	))
	_, err = report.NewMultiWriter(writers...).Write(run.Document)
	return err
}

// reportWriter selects the report format and writer for cfg.
func reportWriter(cfg *config.Config) (string, report.WriterFactory) {
	switch {
	case cfg.JSONReport:
		return "json", func(w io.Writer) report.Writer {
			return report.NewFullJSONWriter(w, getVersion(), report.WithPrettyPrint())
		}
	case cfg.MarkdownReport:
		return "markdown", func(w io.Writer) report.Writer {
			return report.NewMarkdownWriter(w, cfg.File.Title)
		}
	default:
		return "html", func(w io.Writer) report.Writer {
			return report.NewHTMLWriter(w,
				report.WithTitle(cfg.File.Title),
				report.WithVersion(getVersion()),
				report.WithFragmentToken(cfg.File.FragmentToken),
				report.WithDefaultPane(cfg.File.DefaultPane),
			)
		}
	}
}
