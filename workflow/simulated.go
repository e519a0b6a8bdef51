package workflow

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default latency bounds for the simulated processor, modeling an
// external-call round trip.
const (
	DefaultSimulatedMinDelay = 500 * time.Millisecond
	DefaultSimulatedMaxDelay = 1500 * time.Millisecond
)

// SimulatedProcessor is the fallback processor substituted by the engine
// when no processor is registered for a node. It logs an informational
// message, sleeps a bounded randomized delay, and returns a canned payload
// shaped per node type. Useful for local development and testing without
// real side-effecting handlers.
type SimulatedProcessor struct {
	logger   *zap.Logger
	minDelay time.Duration
	maxDelay time.Duration
	rng      *rand.Rand
}

// SimulatedOption customizes a SimulatedProcessor.
type SimulatedOption func(*SimulatedProcessor)

// WithSimulatedDelay sets the latency bounds. Zero bounds disable the
// delay entirely, which keeps tests fast and deterministic.
func WithSimulatedDelay(min, max time.Duration) SimulatedOption {
	return func(p *SimulatedProcessor) {
		p.minDelay = min
		p.maxDelay = max
	}
}

// WithSimulatedRand injects a seeded random source for reproducible delays.
func WithSimulatedRand(rng *rand.Rand) SimulatedOption {
	return func(p *SimulatedProcessor) {
		p.rng = rng
	}
}

// WithSimulatedLogger sets the processor's logger.
func WithSimulatedLogger(logger *zap.Logger) SimulatedOption {
	return func(p *SimulatedProcessor) {
		p.logger = logger.With(zap.String("component", "simulated_processor"))
	}
}

// NewSimulatedProcessor creates a simulated processor with default latency
// bounds and a nop logger.
func NewSimulatedProcessor(opts ...SimulatedOption) *SimulatedProcessor {
	p := &SimulatedProcessor{
		logger:   zap.NewNop(),
		minDelay: DefaultSimulatedMinDelay,
		maxDelay: DefaultSimulatedMaxDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute implements Processor.
func (p *SimulatedProcessor) Execute(ctx context.Context, node Node, attempt *NodeExecution) (map[string]any, error) {
	p.logger.Info("simulating node execution",
		zap.String("node_id", node.ID),
		zap.String("node_type", string(node.Type)),
	)
	attempt.AppendLog(fmt.Sprintf("simulating %s node %q", node.Type, node.Name))

	if delay := p.pickDelay(); delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return p.cannedOutput(node), nil
}

// pickDelay draws a delay in [minDelay, maxDelay].
func (p *SimulatedProcessor) pickDelay() time.Duration {
	if p.maxDelay <= 0 {
		return 0
	}
	spread := p.maxDelay - p.minDelay
	if spread <= 0 {
		return p.minDelay
	}
	var n int64
	if p.rng != nil {
		n = p.rng.Int63n(int64(spread))
	} else {
		n = rand.Int63n(int64(spread))
	}
	return p.minDelay + time.Duration(n)
}

// cannedOutput shapes a plausible payload per node type.
func (p *SimulatedProcessor) cannedOutput(node Node) map[string]any {
	switch node.Type {
	case NodeTypeAction:
		return map[string]any{
			"success": true,
			"data":    fmt.Sprintf("simulated result of %s", node.Name),
		}
	case NodeTypeTable:
		return map[string]any{"recordsAffected": 1}
	case NodeTypeEmail:
		return map[string]any{
			"sent":      true,
			"messageId": uuid.New().String(),
		}
	case NodeTypeNotification:
		recipients := 1
		switch cfg := node.Config.(type) {
		case *NotificationConfig:
			if len(cfg.Recipients) > 0 {
				recipients = len(cfg.Recipients)
			}
		case NotificationConfig:
			if len(cfg.Recipients) > 0 {
				recipients = len(cfg.Recipients)
			}
		}
		return map[string]any{
			"delivered":  true,
			"recipients": recipients,
		}
	default:
		return map[string]any{"processed": true}
	}
}
