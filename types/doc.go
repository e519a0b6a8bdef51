// Copyright (c) Flowmill Authors.
// Licensed under the MIT License.

// Package types defines shared types used across the flowmill engine,
// including the unified error code taxonomy and the structured Error type.
package types
