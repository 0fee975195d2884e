/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package audit

import "fmt"

// FieldError reports a receipt field whose text could not be interpreted as
// a number where arithmetic was required. It is surfaced to the caller
// rather than coerced to zero, so upstream extraction defects are not
// silently masked.
type FieldError struct {
	// Field is the receipt field, e.g. "total" or "items[2].total".
	Field string
	// Value is the offending text.
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("receipt field %s: cannot interpret %q as an amount", e.Field, e.Value)
}
