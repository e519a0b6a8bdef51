package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/flowmill/flowmill/internal/metrics"
	"github.com/flowmill/flowmill/types"
)

const tracerName = "github.com/flowmill/flowmill/workflow"

// Engine executes workflows one run at a time per call: it computes an
// execution order, dispatches each node to its registered (or simulated)
// processor, routes outputs to downstream inputs, and enforces the
// workflow's error-handling policy. An Engine is safe for concurrent use;
// each call produces an independent Execution record.
type Engine struct {
	registry  *ProcessorRegistry
	fallback  Processor
	logger    *zap.Logger
	tracer    trace.Tracer
	collector *metrics.Collector
	limiter   *rate.Limiter
	runs      *semaphore.Weighted

	defaultNodeTimeout time.Duration
	preflight          bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With(zap.String("component", "engine"))
	}
}

// WithFallbackProcessor replaces the simulated processor used for nodes
// that have no registered processor.
func WithFallbackProcessor(p Processor) Option {
	return func(e *Engine) { e.fallback = p }
}

// WithDefaultNodeTimeout bounds nodes that declare no timeout of their
// own. Zero means no default limit.
func WithDefaultNodeTimeout(d time.Duration) Option {
	return func(e *Engine) { e.defaultNodeTimeout = d }
}

// WithMaxConcurrentRuns caps the number of runs in flight across the
// engine. Additional calls block until a slot frees up or their context
// is done.
func WithMaxConcurrentRuns(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.runs = semaphore.NewWeighted(n)
		}
	}
}

// WithDispatchRateLimit throttles node dispatches across all runs,
// protecting downstream systems behind the processors.
func WithDispatchRateLimit(limit rate.Limit, burst int) Option {
	return func(e *Engine) { e.limiter = rate.NewLimiter(limit, burst) }
}

// WithPreflightValidation makes Execute run Validate before scheduling and
// fail the execution with the collected diagnostics. Off by default:
// validation is ordinarily the builder collaborator's responsibility, but
// opting in closes the scheduler's silent cycle truncation gap.
func WithPreflightValidation() Option {
	return func(e *Engine) { e.preflight = true }
}

// WithMetrics registers the engine's Prometheus collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.collector = metrics.NewCollector("flowmill", reg) }
}

// NewEngine creates an engine with an empty, instance-scoped processor
// registry and a simulated fallback processor.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: NewProcessorRegistry(),
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fallback == nil {
		e.fallback = NewSimulatedProcessor(WithSimulatedLogger(e.logger))
	}
	return e
}

// Registry exposes the engine's processor registry so integrators can wire
// real side-effecting handlers per node id.
func (e *Engine) Registry() *ProcessorRegistry {
	return e.registry
}

// RegisterProcessor binds a processor to a node id on the engine's registry.
func (e *Engine) RegisterProcessor(nodeID string, p Processor) {
	e.registry.Register(nodeID, p)
}

// Execute performs one run of the workflow and returns its complete
// record. It never returns an error: every failure, including panics
// escaping a processor or the scheduler, is captured in the returned
// record's Status and Error fields. The workflow itself is never mutated.
func (e *Engine) Execute(ctx context.Context, wf *Workflow, triggerData map[string]any) (exec *Execution) {
	exec = &Execution{
		ID:          uuid.New().String(),
		WorkflowID:  wf.ID,
		Status:      ExecutionStatusRunning,
		StartTime:   time.Now(),
		TriggerData: triggerData,
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("execution panicked",
				zap.String("execution_id", exec.ID),
				zap.Any("panic", r),
			)
			exec.Status = ExecutionStatusFailed
			exec.Error = types.NewErrorf(types.ErrInternalError, "execution panicked: %v", r).Error()
		}
		e.finalize(exec)
	}()

	if e.runs != nil {
		if err := e.runs.Acquire(ctx, 1); err != nil {
			exec.Status = ExecutionStatusCancelled
			exec.Error = types.NewError(types.ErrExecutionCancelled, "cancelled while waiting for a run slot").WithCause(err).Error()
			return exec
		}
		defer e.runs.Release(1)
	}

	ctx, span := e.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
		attribute.String("workflow.id", wf.ID),
		attribute.String("execution.id", exec.ID),
	))
	defer func() {
		span.SetAttributes(attribute.String("execution.status", string(exec.Status)))
		span.End()
	}()

	e.logger.Info("starting workflow execution",
		zap.String("workflow_id", wf.ID),
		zap.String("execution_id", exec.ID),
		zap.Int("nodes", len(wf.Nodes)),
	)

	if e.preflight {
		if result := Validate(wf); !result.Valid {
			exec.Status = ExecutionStatusFailed
			exec.Error = types.NewErrorf(types.ErrInvalidWorkflow,
				"workflow validation failed: %s", strings.Join(result.Errors, "; ")).Error()
			return exec
		}
	}

	if len(wf.TriggerNodes()) == 0 {
		exec.Status = ExecutionStatusFailed
		exec.Error = types.NewError(types.ErrNoTriggerNodes, "workflow has no trigger nodes").Error()
		return exec
	}

	if wf.Settings.MaxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wf.Settings.MaxExecutionTime)
		defer cancel()
	}

	order := ExecutionOrder(wf)

	for _, nodeID := range order {
		if err := ctx.Err(); err != nil {
			e.abort(exec, err)
			break
		}

		node, ok := wf.NodeByID(nodeID)
		if !ok || !node.Enabled {
			// Disabled or vanished nodes are skipped silently: no attempt
			// record, downstream nodes simply see no routed input.
			continue
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				e.abort(exec, err)
				break
			}
		}

		attempt := e.runNode(ctx, wf, node, exec)
		exec.NodeExecutions = append(exec.NodeExecutions, attempt)

		if attempt.Status == NodeStatusFailed && wf.Settings.ErrorHandling == ErrorHandlingStop {
			exec.Status = ExecutionStatusFailed
			exec.Error = types.NewErrorf(types.ErrNodeFailed,
				"execution stopped: node %s failed", node.ID).WithNode(node.ID).Error()
			break
		}
	}

	if exec.Status == ExecutionStatusRunning {
		exec.Status = ExecutionStatusCompleted
	}
	return exec
}

// runNode performs one node attempt: fresh record, input routing,
// processor dispatch under the node's deadline, and outcome capture.
// Processor panics are contained at this boundary.
func (e *Engine) runNode(ctx context.Context, wf *Workflow, node Node, exec *Execution) (attempt *NodeExecution) {
	attempt = &NodeExecution{
		NodeID:      node.ID,
		WorkflowID:  wf.ID,
		ExecutionID: exec.ID,
		Status:      NodeStatusRunning,
		StartTime:   time.Now(),
	}
	attempt.Input = ResolveInputs(node, wf, exec.CompletedOutputs(), exec.TriggerData)

	ctx, span := e.tracer.Start(ctx, "node.execute", trace.WithAttributes(
		attribute.String("node.id", node.ID),
		attribute.String("node.type", string(node.Type)),
	))
	defer func() {
		span.SetAttributes(attribute.String("node.status", string(attempt.Status)))
		span.End()
	}()

	timeout := node.Timeout
	if timeout <= 0 {
		timeout = e.defaultNodeTimeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	processor, registered := e.registry.Get(node.ID)
	if !registered {
		processor = e.fallback
	}

	e.logger.Debug("executing node",
		zap.String("node_id", node.ID),
		zap.String("node_type", string(node.Type)),
		zap.Bool("registered", registered),
	)

	output, err := e.invoke(runCtx, processor, node, attempt)
	attempt.EndTime = time.Now()

	if err != nil {
		attempt.Status = NodeStatusFailed
		attempt.Error = e.classifyNodeError(node, timeout, runCtx, err).Error()
		e.logger.Warn("node execution failed",
			zap.String("node_id", node.ID),
			zap.Duration("duration", attempt.Duration()),
			zap.Error(err),
		)
	} else {
		attempt.Status = NodeStatusCompleted
		attempt.Output = output
		e.logger.Debug("node execution completed",
			zap.String("node_id", node.ID),
			zap.Duration("duration", attempt.Duration()),
		)
	}

	if e.collector != nil {
		e.collector.ObserveNode(string(node.Type), string(attempt.Status), attempt.Duration())
	}
	return attempt
}

// invoke calls the processor, converting a panic into an error so a broken
// handler never takes down the run.
func (e *Engine) invoke(ctx context.Context, p Processor, node Node, attempt *NodeExecution) (output map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewErrorf(types.ErrProcessorPanic, "processor panicked: %v", r).WithNode(node.ID)
		}
	}()
	return p.Execute(ctx, node, attempt)
}

// classifyNodeError distinguishes deadline expiry from ordinary processor
// failure so timeouts surface with a dedicated error kind.
func (e *Engine) classifyNodeError(node Node, timeout time.Duration, runCtx context.Context, err error) error {
	if timeout > 0 && (errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded)) {
		return types.NewErrorf(types.ErrNodeTimeout,
			"node %s timed out after %s", node.ID, timeout).WithNode(node.ID).WithCause(err)
	}
	return fmt.Errorf("node %s failed: %w", node.ID, err)
}

// abort finalizes an execution interrupted before its order was exhausted,
// distinguishing run-deadline expiry from cooperative cancellation.
func (e *Engine) abort(exec *Execution, cause error) {
	if errors.Is(cause, context.DeadlineExceeded) {
		exec.Status = ExecutionStatusFailed
		exec.Error = types.NewError(types.ErrExecutionTimeout, "execution exceeded max execution time").WithCause(cause).Error()
		return
	}
	exec.Status = ExecutionStatusCancelled
	exec.Error = types.NewError(types.ErrExecutionCancelled, "execution cancelled").WithCause(cause).Error()
}

// finalize stamps the end time, records metrics, and logs the outcome.
func (e *Engine) finalize(exec *Execution) {
	exec.EndTime = time.Now()
	if e.collector != nil {
		e.collector.ObserveExecution(string(exec.Status), exec.Duration())
	}
	e.logger.Info("workflow execution finished",
		zap.String("execution_id", exec.ID),
		zap.String("status", string(exec.Status)),
		zap.Int("nodes_attempted", len(exec.NodeExecutions)),
		zap.Duration("duration", exec.Duration()),
	)
}
