// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diskpub

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/staranto/opskit/internal/diskusage"
	"github.com/staranto/opskit/internal/instance"
	"github.com/staranto/opskit/internal/log"
)

const (
	// DefaultNamespace is used when neither the argument nor config names one.
	DefaultNamespace = "DiskUsage"
	// DefaultMetricName is the metric published for each folder.
	DefaultMetricName = "FolderSize"
)

// Publisher measures a folder and pushes the result to Sink.
type Publisher struct {
	Measurer   diskusage.Measurer
	Identifier instance.Identifier
	Sink       Sink
	// Archiver is optional.
	Archiver   Archiver
	MetricName string
	Out        io.Writer
	Now        func() time.Time
}

// Outcome records what a Run did.
type Outcome struct {
	Sample     Sample `json:"sample"`
	Pushed     bool   `json:"pushed"`
	PushError  string `json:"push_error,omitempty"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

// Run publishes the size of folder under namespace. An empty folder returns
// ErrUsage before anything external is touched. A failed push or archive is
// written to Out as an ERROR line and does not fail the run.
func (p *Publisher) Run(ctx context.Context, namespace, folder string) (Outcome, error) {
	if folder == "" {
		return Outcome{}, ErrUsage
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	metric := p.MetricName
	if metric == "" {
		metric = DefaultMetricName
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	size, err := p.Measurer.Measure(ctx, folder)
	if err != nil {
		return Outcome{}, err
	}

	id, err := p.Identifier.InstanceID(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to resolve instance id: %w", err)
	}

	sample := NewSample(namespace, metric, folder, id, size, now())
	outcome := Outcome{Sample: sample}

	if err := p.Sink.Put(ctx, sample); err != nil {
		log.WithError(err).Errorf("metric push failed")
		outcome.PushError = err.Error()
		fmt.Fprintf(out, "ERROR: failed to push %s=%d for %s to %s: %v\n",
			metric, size, folder, namespace, err)
	} else {
		outcome.Pushed = true
		fmt.Fprintf(out, "Pushed %s=%d Bytes (%s) for %s to %s\n",
			metric, size, humanize.IBytes(uint64(size)), folder, namespace)
	}

	if p.Archiver != nil {
		url, err := p.Archiver.Archive(ctx, sample)
		if err != nil {
			log.WithError(err).Errorf("archive failed")
			fmt.Fprintf(out, "ERROR: failed to archive sample for %s: %v\n", folder, err)
		} else {
			outcome.ArchiveURL = url
			fmt.Fprintf(out, "Archived sample to %s\n", url)
		}
	}

	return outcome, nil
}
