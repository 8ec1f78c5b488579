// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diskpub

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrUsage is returned when required arguments are missing.
var ErrUsage = errors.New("usage: opskit du <namespace> <folder_path>")

// FriendlyAWS wraps an AWS API error with the operation and the service's
// error code while preserving the original for errors.Is/As.
func FriendlyAWS(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
			return fmt.Errorf("%s: access denied (%s): check the IAM policy for this host: %w",
				operation, ae.ErrorCode(), err)
		case "InvalidClientTokenId", "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%s: credentials rejected (%s): %w", operation, ae.ErrorCode(), err)
		}
		return fmt.Errorf("%s: %s: %s: %w", operation, ae.ErrorCode(), ae.ErrorMessage(), err)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
