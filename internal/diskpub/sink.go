// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diskpub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/staranto/opskit/internal/log"
)

// Sink accepts a published sample.
type Sink interface {
	Put(ctx context.Context, s Sample) error
}

// Archiver keeps a copy of a sample and reports where it went.
type Archiver interface {
	Archive(ctx context.Context, s Sample) (string, error)
}

// PutMetricDataAPI is the slice of the CloudWatch client used here.
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// PutObjectAPI is the slice of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// CloudWatchSink publishes samples as CloudWatch custom metrics.
type CloudWatchSink struct {
	Client PutMetricDataAPI
}

// Put implements Sink.
func (c CloudWatchSink) Put(ctx context.Context, s Sample) error {
	in := MetricInput(s)
	if _, err := c.Client.PutMetricData(ctx, in); err != nil {
		return FriendlyAWS(err, "put-metric-data")
	}
	log.Debugf("metric pushed: namespace=%s metric=%s value=%d", s.Namespace, s.MetricName, s.Bytes)
	return nil
}

// MetricInput converts s into a PutMetricData request.
func MetricInput(s Sample) *cloudwatch.PutMetricDataInput {
	dims := make([]cwtypes.Dimension, 0, len(s.Dimensions))
	for _, d := range s.Dimensions {
		dims = append(dims, cwtypes.Dimension{
			Name:  awsv2.String(d.Name),
			Value: awsv2.String(d.Value),
		})
	}

	datum := cwtypes.MetricDatum{
		MetricName: awsv2.String(s.MetricName),
		Value:      awsv2.Float64(float64(s.Bytes)),
		Unit:       cwtypes.StandardUnitBytes,
		Dimensions: dims,
	}
	if !s.Timestamp.IsZero() {
		datum.Timestamp = awsv2.Time(s.Timestamp)
	}

	return &cloudwatch.PutMetricDataInput{
		Namespace:  awsv2.String(s.Namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	}
}

// S3Archiver stores each sample as a JSON object.
type S3Archiver struct {
	Client PutObjectAPI
	Bucket string
	Prefix string
}

// Archive implements Archiver. It returns the s3:// URL written.
func (a S3Archiver) Archive(ctx context.Context, s Sample) (string, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sample: %w", err)
	}

	key := ArchiveKey(a.Prefix, s)
	_, err = a.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(a.Bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(body),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return "", FriendlyAWS(err, "put-object")
	}

	url := "s3://" + a.Bucket + "/" + key
	log.Debugf("sample archived: url=%s", url)
	return url, nil
}

// ArchiveKey returns <prefix>/<namespace>/<instance>/<unix-seconds>.json.
func ArchiveKey(prefix string, s Sample) string {
	return path.Join(prefix, s.Namespace, s.InstanceID, strconv.FormatInt(s.Timestamp.Unix(), 10)+".json")
}
