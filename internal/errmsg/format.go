// Package errmsg provides consistent error formatting for user-facing
// API messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by pipeline stage.
const (
	// Scan operations
	OpScan     Op = "scan input directory"
	OpReadTags Op = "read file tags"

	// Identification operations
	OpIdentify Op = "identify albums"
	OpSearch   Op = "search releases"
	OpResolve  Op = "resolve release"

	// Tagging operations
	OpTag        Op = "tag files"
	OpFetchCover Op = "fetch cover art"

	// Organization operations
	OpOrganize Op = "organize albums"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
