// Command flowmill runs a single workflow execution: it loads a workflow
// document (JSON or YAML), executes it against simulated processors, and
// prints the resulting execution record as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/flowmill/flowmill/config"
	"github.com/flowmill/flowmill/workflow"
)

func main() {
	var (
		workflowPath = flag.String("workflow", "", "path to a workflow document (.json, .yaml)")
		configPath   = flag.String("config", "", "path to a flowmill config file (optional)")
		triggerJSON  = flag.String("trigger", "", "trigger payload as a JSON object (optional)")
		validateOnly = flag.Bool("validate", false, "validate the workflow and exit without running it")
	)
	flag.Parse()

	if *workflowPath == "" {
		fmt.Fprintln(os.Stderr, "flowmill: -workflow is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*workflowPath, *configPath, *triggerJSON, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "flowmill: %v\n", err)
		os.Exit(1)
	}
}

func run(workflowPath, configPath, triggerJSON string, validateOnly bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	wf, err := workflow.LoadFile(workflowPath)
	if err != nil {
		return err
	}

	if validateOnly {
		result := workflow.Validate(wf)
		return printJSON(result)
	}

	var triggerData map[string]any
	if triggerJSON != "" {
		if err := json.Unmarshal([]byte(triggerJSON), &triggerData); err != nil {
			return fmt.Errorf("parse trigger payload: %w", err)
		}
	}

	opts := []workflow.Option{
		workflow.WithLogger(logger),
		workflow.WithDefaultNodeTimeout(cfg.Engine.DefaultNodeTimeout),
		workflow.WithFallbackProcessor(workflow.NewSimulatedProcessor(
			workflow.WithSimulatedLogger(logger),
			workflow.WithSimulatedDelay(cfg.Engine.SimulatedMinDelay, cfg.Engine.SimulatedMaxDelay),
		)),
	}
	if cfg.Engine.MaxConcurrentRuns > 0 {
		opts = append(opts, workflow.WithMaxConcurrentRuns(cfg.Engine.MaxConcurrentRuns))
	}
	if cfg.Engine.DispatchRateLimit > 0 {
		opts = append(opts, workflow.WithDispatchRateLimit(rate.Limit(cfg.Engine.DispatchRateLimit), cfg.Engine.DispatchBurst))
	}
	if cfg.Engine.PreflightValidation {
		opts = append(opts, workflow.WithPreflightValidation())
	}
	engine := workflow.NewEngine(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec := engine.Execute(ctx, wf, triggerData)
	if err := printJSON(exec); err != nil {
		return err
	}
	if exec.Status != workflow.ExecutionStatusCompleted {
		return fmt.Errorf("execution %s: %s", exec.Status, exec.Error)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
