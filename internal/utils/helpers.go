// Package utils provides utility functions and helpers for common operations
// used throughout the application. Functions in this package are designed
// to be simple, self-contained, and have minimal side effects.
package utils

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/wecomkit/rulesync/internal/constants"
)

// FormatInt64 formats an int64 as a string.
func FormatInt64(i int64) string {
	return fmt.Sprintf("%d", i)
}

// Plural returns a string with the number and the plural form of the word if necessary.
func Plural(count int, word string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}

// IsDuplicateKeyError checks if an error is a MySQL duplicate key error.
// PostgreSQL duplicates are handled through pq.Error in ParseError.
func IsDuplicateKeyError(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == constants.MySQLErrorDuplicateEntry
	}
	return false
}

// TruncateString truncates a string to the given maximum length and adds
// ellipsis if necessary. Used for display and logging purposes.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// ContainsString checks whether a string slice contains the given value.
func ContainsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

// ContainsInt checks whether an int slice contains the given value.
func ContainsInt(items []int, value int) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

// MaskSecret hides all but the first characters of a secret for log output.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}
