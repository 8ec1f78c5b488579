// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/staranto/opskit/internal/envdefault"
	"github.com/staranto/opskit/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// KeysValidator accepts a list of environment variable names.
func KeysValidator(value any) error {
	keys, _ := value.([]string)
	for _, k := range keys {
		if !envdefault.ValidKey(k) {
			return fmt.Errorf("invalid key %q", k)
		}
	}
	return nil
}
