// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel fans batch redaction jobs across a worker pool.
// Failures stay per-file: one corrupt document never aborts the batch.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"resume-redact/internal/engine"
	"resume-redact/internal/observability"
)

// Job is one document to redact.
type Job struct {
	ID      string
	Name    string
	Data    []byte
	Options engine.Options
}

// Result carries one job's outcome. Err is set instead of Output when
// the file could not be processed.
type Result struct {
	JobID    string
	Name     string
	Output   []byte
	Report   engine.Report
	Err      error
	Duration time.Duration
}

// WorkerPool processes jobs concurrently with a fixed worker count.
type WorkerPool struct {
	workers  int
	engine   *engine.Engine
	observer *observability.Observer

	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerPool sizes the pool; workers <= 0 selects one worker per
// CPU, capped at 8 to keep memory bounded on wide hosts.
func NewWorkerPool(workers int, eng *engine.Engine, obs *observability.Observer) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workers:  workers,
		engine:   eng,
		observer: obs,
		jobs:     make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the workers. Results must be drained by the caller.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit queues a job. It blocks when the queue is full and returns
// false after Shutdown.
func (p *WorkerPool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Results returns the output channel.
func (p *WorkerPool) Results() <-chan Result { return p.results }

// Close signals that no more jobs will be submitted; the results
// channel closes once in-flight jobs finish.
func (p *WorkerPool) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Shutdown cancels in-flight work.
func (p *WorkerPool) Shutdown() { p.cancel() }

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.results <- p.run(job)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *WorkerPool) run(job Job) Result {
	start := time.Now()
	res := Result{JobID: job.ID, Name: job.Name}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic processing %s: %v", job.Name, r)
			res.Duration = time.Since(start)
		}
	}()

	out, err := p.engine.Process(p.ctx, job.Name, job.Data, job.Options)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out.Output
	res.Report = out.Report
	return res
}

// ProcessBatch runs all jobs to completion and returns results in
// input order. Per-job failures are recorded on the result; the only
// error returned is context cancellation.
func ProcessBatch(ctx context.Context, eng *engine.Engine, obs *observability.Observer, jobs []Job, workers int) ([]Result, error) {
	done := obs.StartTiming("parallel", "process_batch", "")

	pool := NewWorkerPool(workers, eng, obs)
	pool.Start()

	go func() {
		for _, job := range jobs {
			if !pool.Submit(job) {
				return
			}
		}
		pool.Close()
	}()

	byID := make(map[string]Result, len(jobs))
	collected := 0
	for collected < len(jobs) {
		select {
		case res, ok := <-pool.Results():
			if !ok {
				collected = len(jobs)
				break
			}
			byID[res.JobID] = res
			collected++
		case <-ctx.Done():
			pool.Shutdown()
			done(false, map[string]any{"error": ctx.Err().Error()})
			return nil, ctx.Err()
		}
	}
	pool.Shutdown()

	out := make([]Result, 0, len(jobs))
	failures := 0
	for _, job := range jobs {
		res, ok := byID[job.ID]
		if !ok {
			res = Result{JobID: job.ID, Name: job.Name, Err: fmt.Errorf("job %s: no result", job.ID)}
		}
		if res.Err != nil {
			failures++
		}
		out = append(out, res)
	}
	done(failures == 0, map[string]any{"jobs": len(jobs), "failures": failures})
	return out, nil
}
