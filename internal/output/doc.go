// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output selects, sorts and renders command results as text tables,
// json or yaml.
package output
