package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autoissue/autoissue/internal/agent"
	"github.com/autoissue/autoissue/internal/config"
	"github.com/autoissue/autoissue/internal/executor"
	"github.com/autoissue/autoissue/internal/ghclient"
	"github.com/autoissue/autoissue/internal/logging"
	"github.com/autoissue/autoissue/internal/worktree"
)

var runFlags struct {
	configPath  string
	repo        string
	path        string
	maxParallel int
	label       string
	issues      string
	resume      string
	dryRun      bool
	logFormat   string
	logLevel    string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one session against a set of open issues",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.configPath, "config", "", "path to config file (default ~/.config/autoissue/config.yaml)")
	runCmd.Flags().StringVar(&runFlags.repo, "repo", "", "target repository as owner/name, overrides project.repo")
	runCmd.Flags().StringVar(&runFlags.path, "path", "", "absolute path to the local checkout, overrides project.path")
	runCmd.Flags().IntVar(&runFlags.maxParallel, "max-parallel", 0, "maximum concurrent agent runs, overrides executor.maxParallel")
	runCmd.Flags().StringVar(&runFlags.label, "label", "autoissue", "label selecting issues to fetch")
	runCmd.Flags().StringVar(&runFlags.issues, "issues", "", "comma-separated explicit issue numbers, overrides --label")
	runCmd.Flags().StringVar(&runFlags.resume, "resume", "", "resume a prior session by its session ID")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "skip the real agent invocation and PR creation")
	runCmd.Flags().StringVar(&runFlags.logFormat, "log-format", "json", "log output format: json or console")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runFlags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autoissue: config error: %v\n", err)
		os.Exit(executor.ExitStartupError)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(runFlags.logLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	logger, err := logging.New(logging.Config{Level: level, Format: runFlags.logFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "autoissue: logger error: %v\n", err)
		os.Exit(executor.ExitStartupError)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runFlags.repo != "" {
		cfg.Project.Repo = runFlags.repo
	}
	if runFlags.path != "" {
		cfg.Project.Path = runFlags.path
	}
	if runFlags.maxParallel != 0 {
		cfg.Executor.MaxParallel = runFlags.maxParallel
	}

	ghClient := ghclient.New(ghclient.NewClient(ctx, cfg.GitHubToken), owner(cfg.Project.Repo), name(cfg.Project.Repo), logger)

	var agentRunner executor.AgentRunner = agent.NewCLIRunner(cfg.AgentBinary, logger)
	if runFlags.dryRun {
		agentRunner = agent.StubRunner{}
	}

	stateRoot, err := resolveStateRoot(cfg.StateRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "autoissue: %v\n", err)
		os.Exit(executor.ExitStartupError)
	}

	coord := &executor.Coordinator{
		Config:      *cfg,
		StateRoot:   stateRoot,
		IssueSource: ghClient,
		Worktrees:   worktree.New(cfg.Project.Path, cfg.Project.BaseBranch, logger),
		Agent:       agentRunner,
		PRHost:      ghClient,
		Logger:      logger,
	}

	opts := executor.RunOptions{
		Label:  runFlags.label,
		DryRun: runFlags.dryRun,
	}
	if runFlags.issues != "" {
		opts.IssueNumbers = parseIssueNumbers(runFlags.issues)
		opts.Label = ""
	}
	if runFlags.resume != "" {
		opts.Resume = true
		opts.SessionID = runFlags.resume
	}

	code, err := coord.Run(ctx, opts)
	if err != nil {
		logger.Error(ctx, "session ended with error", zap.Error(err))
	}
	os.Exit(code)
	return nil
}

func parseIssueNumbers(csv string) []int {
	var numbers []int
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

func owner(repo string) string {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[0]
}

func name(repo string) string {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
