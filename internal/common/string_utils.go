// Package common provides shared enum naming used by the typed request and
// column layers.
package common

import (
	"fmt"
)

// StringFormatter provides common string formatting utilities.
type StringFormatter struct{}

// NewStringFormatter creates a new StringFormatter instance.
func NewStringFormatter() *StringFormatter {
	return &StringFormatter{}
}

// EnumStringMap represents a mapping from enum values to string representations.
type EnumStringMap map[int]string

// FormatEnum formats an enum value using the provided mapping.
func (sf *StringFormatter) FormatEnum(value int, mapping EnumStringMap) string {
	if str, exists := mapping[value]; exists {
		return str
	}
	return fmt.Sprintf("unknown(%d)", value)
}

// Default formatter instance for convenience.
var defaultFormatter = NewStringFormatter()

// FormatEnum formats an enum value using the default formatter.
func FormatEnum(value int, mapping EnumStringMap) string {
	return defaultFormatter.FormatEnum(value, mapping)
}
