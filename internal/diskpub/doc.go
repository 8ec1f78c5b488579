// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package diskpub measures a folder and publishes its size as a metric. A
// failed push is reported on the output stream and is not an error: the run
// still succeeds so that a flaky metrics endpoint never fails the job that
// invoked it. Every other failure aborts the run.
package diskpub
