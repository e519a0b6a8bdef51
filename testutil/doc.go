// Copyright (c) Flowmill Authors.
// Licensed under the MIT License.

// Package testutil provides deterministic processors and workflow fixtures
// for testing the flowmill engine without randomness or simulated latency.
package testutil
