// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package envdefault resolves configuration keys from fallbacks. A target key
// is filled from another key, a literal, or an indirect key reference only
// when the target is absent. A target that is present with an empty value is
// an explicit "disabled" setting and is never overwritten.
//
// Resolution works on an explicit Env value rather than the process
// environment. Callers snapshot the environment with FromOS, resolve, and then
// either Apply the result or Export it as shell assignments.
package envdefault
