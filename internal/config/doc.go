// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for opskit's user
// configuration. The configuration is a YAML document located in the user's
// configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/opskit.yaml or $HOME/.config/opskit.yaml
//   - macOS: $HOME/Library/Application Support/opskit.yaml
//
// OPSKIT_CFG_FILE overrides the location.
package config
