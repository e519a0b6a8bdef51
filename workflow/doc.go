// Copyright (c) Flowmill Authors.
// Licensed under the MIT License.

/*
Package workflow implements the flowmill workflow execution engine: given
a directed graph of typed automation nodes connected by data-flow edges,
it computes a valid execution order, dispatches each node to a pluggable
processor, routes outputs to downstream inputs, and enforces the
workflow-level error-handling policy.

# Core types and interfaces

  - Workflow / Node / Connection — the graph model, owned by the builder
    collaborator and read-only for the engine
  - NodeConfig                   — closed tagged-variant set of per-type
    node payloads, dispatched by the type discriminator
  - Execution / NodeExecution    — the immutable-once-finalized record of
    one run and its per-node attempts
  - Processor                    — Execute(ctx, node, attempt) → output;
    the extension point for real side-effecting handlers
  - ProcessorRegistry            — instance-scoped per-node-id bindings
  - SimulatedProcessor           — default fallback with canned payloads
  - Engine                       — one call, one Execution; never raises

# Main capabilities

  - ExecutionOrder: deterministic post-order topological scheduling seeded
    by trigger nodes, tolerant of malformed graphs
  - Validate: cumulative structural diagnostics (missing triggers, cycles,
    dangling connection endpoints, duplicate ids) returned as data
  - ResolveInputs: per-node input routing from completed upstream outputs,
    workflow variables, and trigger payloads
  - Error policy: stop / continue / retry, with retry consumption kept at
    the processor layer (RetryProcessor)
  - Deadlines: per-node timeouts and a whole-run max execution time
  - Serialization: JSON / YAML import and export with validation on load
  - WorkflowBuilder: fluent construction mirroring the visual builder
*/
package workflow
