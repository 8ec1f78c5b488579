// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects result rows with --filter expressions.
//
// An expression is KEY, or KEY OP VALUE, where OP is one of the operators
// below, optionally negated with a leading "!". A bare KEY keeps rows whose
// value is truthy. Expressions are separated by "," unless
// OPSKIT_FILTER_DELIM names another delimiter.
//
//   - = : equal (numeric when both sides are numbers)
//   - ~ : equal ignoring case
//   - ^ : prefix
//   - < : less than
//   - > : greater than
//   - @ : contains, for strings and lists
//   - / : regular expression match
//
// Examples:
//
//   - "applied" : only targets that took a fallback
//   - "kind=literal"
//   - "bytes>1048576"
//   - "target^AWS_"
//   - "value!@secret"
package filters
