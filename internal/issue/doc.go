// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// An ActionableError names the operation that failed, the file involved and
// what the user can do next. The catalog in issue.go holds longer Markdown
// write-ups for the failures users hit most (uv missing, a notebook with the
// wrong extension, a broken metadata block), rendered with glamour.
package issue
