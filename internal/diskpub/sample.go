// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diskpub

import "time"

// Dimension is a metric dimension name/value pair.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Sample is one disk-usage measurement ready to be published.
type Sample struct {
	Namespace  string      `json:"namespace"`
	MetricName string      `json:"metric"`
	Path       string      `json:"path"`
	InstanceID string      `json:"instance_id"`
	Bytes      int64       `json:"bytes"`
	Unit       string      `json:"unit"`
	Timestamp  time.Time   `json:"timestamp"`
	Dimensions []Dimension `json:"dimensions"`
}

// NewSample builds a Sample dimensioned by instance and path.
func NewSample(namespace, metric, path, instanceID string, bytes int64, ts time.Time) Sample {
	return Sample{
		Namespace:  namespace,
		MetricName: metric,
		Path:       path,
		InstanceID: instanceID,
		Bytes:      bytes,
		Unit:       "Bytes",
		Timestamp:  ts.UTC(),
		Dimensions: []Dimension{
			{Name: "InstanceId", Value: instanceID},
			{Name: "Path", Value: path},
		},
	}
}
