package workflow

import (
	"context"
	"fmt"
	"time"
)

// Processor is the pluggable capability that performs a node's actual work.
// It receives the node's definition and its live attempt record, whose
// Input has already been resolved and whose Logs it may append to. It
// returns the node's output payload, or an error to signal failure.
//
// The engine invokes processors at least once per node per run; a
// processor wired to a side-effecting system should be idempotent with
// respect to retries or must not be wrapped in RetryProcessor.
type Processor interface {
	Execute(ctx context.Context, node Node, attempt *NodeExecution) (map[string]any, error)
}

// ProcessorFunc adapts an ordinary function to the Processor interface.
type ProcessorFunc func(ctx context.Context, node Node, attempt *NodeExecution) (map[string]any, error)

// Execute implements Processor.
func (f ProcessorFunc) Execute(ctx context.Context, node Node, attempt *NodeExecution) (map[string]any, error) {
	return f(ctx, node, attempt)
}

// RetryProcessor wraps a Processor with bounded retries and a fixed delay
// between attempts. Retry consumption lives here, at the processor layer,
// so the engine's error policy stays attempt-agnostic.
type RetryProcessor struct {
	inner Processor
	// attempts is the total number of tries, including the first.
	attempts int
	delay    time.Duration
}

// NewRetryProcessor wraps inner with up to attempts tries. attempts < 1 is
// treated as a single try.
func NewRetryProcessor(inner Processor, attempts int, delay time.Duration) *RetryProcessor {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryProcessor{inner: inner, attempts: attempts, delay: delay}
}

// NewRetryProcessorForNode derives the retry budget from the node's
// RetryCount field: one initial try plus RetryCount retries.
func NewRetryProcessorForNode(inner Processor, node Node, delay time.Duration) *RetryProcessor {
	return NewRetryProcessor(inner, node.RetryCount+1, delay)
}

// Execute implements Processor.
func (p *RetryProcessor) Execute(ctx context.Context, node Node, attempt *NodeExecution) (map[string]any, error) {
	var lastErr error
	for try := 1; try <= p.attempts; try++ {
		output, err := p.inner.Execute(ctx, node, attempt)
		if err == nil {
			return output, nil
		}
		lastErr = err
		if try == p.attempts {
			break
		}
		attempt.AppendLog(fmt.Sprintf("attempt %d/%d failed: %v", try, p.attempts, err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", p.attempts, lastErr)
}
