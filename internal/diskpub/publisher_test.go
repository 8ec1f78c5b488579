// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package diskpub

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder counts every external call a Publisher makes.
type recorder struct {
	calls []string

	size       int64
	measureErr error
	id         string
	idErr      error
	putErr     error
	archiveErr error

	put Sample
}

func (r *recorder) Measure(_ context.Context, root string) (int64, error) {
	r.calls = append(r.calls, "measure:"+root)
	return r.size, r.measureErr
}

func (r *recorder) InstanceID(context.Context) (string, error) {
	r.calls = append(r.calls, "instance")
	return r.id, r.idErr
}

func (r *recorder) Put(_ context.Context, s Sample) error {
	r.calls = append(r.calls, "put")
	r.put = s
	return r.putErr
}

func (r *recorder) Archive(_ context.Context, s Sample) (string, error) {
	r.calls = append(r.calls, "archive")
	if r.archiveErr != nil {
		return "", r.archiveErr
	}
	return "s3://bucket/" + ArchiveKey("", s), nil
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newPublisher(r *recorder, out *bytes.Buffer) *Publisher {
	return &Publisher{
		Measurer:   r,
		Identifier: r,
		Sink:       r,
		Out:        out,
		Now:        func() time.Time { return fixedNow },
	}
}

func TestRun_EmptyFolderIsUsageError(t *testing.T) {
	r := &recorder{}
	var out bytes.Buffer

	_, err := newPublisher(r, &out).Run(context.Background(), "ns", "")

	assert.ErrorIs(t, err, ErrUsage)
	assert.Empty(t, r.calls, "no external calls attempted")
	assert.Empty(t, out.String())
}

func TestRun_Success(t *testing.T) {
	r := &recorder{size: 2048, id: "i-123"}
	var out bytes.Buffer

	outcome, err := newPublisher(r, &out).Run(context.Background(), "Fleet/Disk", "/var/log")

	require.NoError(t, err)
	assert.True(t, outcome.Pushed)
	assert.Equal(t, []string{"measure:/var/log", "instance", "put"}, r.calls)
	assert.Equal(t, "Pushed FolderSize=2048 Bytes (2.0 KiB) for /var/log to Fleet/Disk\n", out.String())

	assert.Equal(t, "Fleet/Disk", r.put.Namespace)
	assert.Equal(t, DefaultMetricName, r.put.MetricName)
	assert.Equal(t, int64(2048), r.put.Bytes)
	assert.Equal(t, fixedNow, r.put.Timestamp)
	assert.Equal(t, []Dimension{{"InstanceId", "i-123"}, {"Path", "/var/log"}}, r.put.Dimensions)
}

func TestRun_DefaultsNamespaceAndCustomMetric(t *testing.T) {
	r := &recorder{size: 1, id: "i-1"}
	var out bytes.Buffer
	p := newPublisher(r, &out)
	p.MetricName = "LogBytes"

	_, err := p.Run(context.Background(), "", "/tmp")

	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, r.put.Namespace)
	assert.Equal(t, "LogBytes", r.put.MetricName)
}

func TestRun_PushFailureIsNotFatal(t *testing.T) {
	r := &recorder{size: 10, id: "i-1", putErr: errors.New("throttled")}
	var out bytes.Buffer

	outcome, err := newPublisher(r, &out).Run(context.Background(), "ns", "/data")

	assert.NoError(t, err)
	assert.False(t, outcome.Pushed)
	assert.Equal(t, "throttled", outcome.PushError)
	assert.Equal(t, "ERROR: failed to push FolderSize=10 for /data to ns: throttled\n", out.String())
}

func TestRun_MeasureFailureIsFatal(t *testing.T) {
	r := &recorder{measureErr: errors.New("permission denied")}
	var out bytes.Buffer

	_, err := newPublisher(r, &out).Run(context.Background(), "ns", "/root")

	assert.ErrorContains(t, err, "permission denied")
	assert.Equal(t, []string{"measure:/root"}, r.calls)
}

func TestRun_InstanceFailureIsFatal(t *testing.T) {
	r := &recorder{idErr: errors.New("imds timeout")}
	var out bytes.Buffer

	_, err := newPublisher(r, &out).Run(context.Background(), "ns", "/data")

	assert.ErrorContains(t, err, "failed to resolve instance id")
	assert.NotContains(t, r.calls, "put")
}

func TestRun_Archive(t *testing.T) {
	r := &recorder{size: 5, id: "i-9"}
	var out bytes.Buffer
	p := newPublisher(r, &out)
	p.Archiver = r

	outcome, err := p.Run(context.Background(), "ns", "/data")

	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/ns/i-9/"+"1792324800.json", outcome.ArchiveURL)
	assert.Contains(t, out.String(), "Archived sample to s3://bucket/ns/i-9/1792324800.json\n")
}

func TestRun_ArchiveFailureIsNotFatal(t *testing.T) {
	r := &recorder{size: 5, id: "i-9", archiveErr: errors.New("no such bucket")}
	var out bytes.Buffer
	p := newPublisher(r, &out)
	p.Archiver = r

	outcome, err := p.Run(context.Background(), "ns", "/data")

	require.NoError(t, err)
	assert.True(t, outcome.Pushed)
	assert.Empty(t, outcome.ArchiveURL)
	assert.Contains(t, out.String(), "ERROR: failed to archive sample for /data: no such bucket\n")
}
