// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"time"
)

// Level controls how much the observer emits.
type Level int

const (
	LevelOff Level = iota
	LevelMetrics
	LevelDebug
)

// Observer emits structured operation records for engine components.
// A nil *Observer is valid and emits nothing, so components never need
// to guard their instrumentation calls.
type Observer struct {
	level  Level
	writer io.Writer
}

// OperationData is one timed operation record.
type OperationData struct {
	Component  string         `json:"component"`
	Operation  string         `json:"operation"`
	FilePath   string         `json:"file_path,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	Success    bool           `json:"success"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func New(level Level, writer io.Writer) *Observer {
	return &Observer{level: level, writer: writer}
}

// StartTiming returns a completion function that records the elapsed
// duration together with success state and free-form metadata.
func (o *Observer) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]any) {
	if o == nil || o.level == LevelOff || o.writer == nil {
		return func(bool, map[string]any) {}
	}
	start := time.Now()
	return func(success bool, metadata map[string]any) {
		o.log(OperationData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

func (o *Observer) log(data OperationData) {
	if o.level < LevelDebug {
		return
	}
	json.NewEncoder(o.writer).Encode(data)
}
