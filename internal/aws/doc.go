// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK v2 configuration and builds the service clients
// opskit talks to: CloudWatch for metrics, S3 for sample archives and IMDS for
// instance identity.
package aws
