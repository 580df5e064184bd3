package common

// EnumRegistry provides utilities for managing enum string representations.
type EnumRegistry struct {
	mappings map[string]EnumStringMap
}

// NewEnumRegistry creates a new EnumRegistry instance.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{
		mappings: make(map[string]EnumStringMap),
	}
}

// RegisterEnum registers an enum type with its string mapping.
func (er *EnumRegistry) RegisterEnum(typeName string, mapping EnumStringMap) {
	er.mappings[typeName] = mapping
}

// FormatEnum formats an enum value for a registered type.
func (er *EnumRegistry) FormatEnum(typeName string, value int) string {
	if mapping, exists := er.mappings[typeName]; exists {
		if str, found := mapping[value]; found {
			return str
		}
	}
	return FormatEnum(value, nil)
}

// GetEnumMapping returns the mapping for a registered enum type.
func (er *EnumRegistry) GetEnumMapping(typeName string) (EnumStringMap, bool) {
	mapping, exists := er.mappings[typeName]
	return mapping, exists
}

// Common enum mappings used throughout the codebase

// AggregationTypeMapping maps aggregation types to their canonical wire names.
var AggregationTypeMapping = EnumStringMap{
	0: "Sum",    // AggSum
	1: "Mean",   // AggMean
	2: "Count",  // AggCount
	3: "Min",    // AggMin
	4: "Max",    // AggMax
	5: "First",  // AggFirst
	6: "Last",   // AggLast
	7: "Median", // AggMedian
	8: "Std",    // AggStd
	9: "Var",    // AggVar
}

// AggregationKeyNameMapping maps aggregation types to the short names used in
// flattened result keys (e.g. "sum_amount").
var AggregationKeyNameMapping = EnumStringMap{
	0: "sum",
	1: "mean",
	2: "count",
	3: "min",
	4: "max",
	5: "first",
	6: "last",
	7: "median",
	8: "std",
	9: "var",
}

// FilterOperatorMapping maps filter operators to their canonical wire names.
var FilterOperatorMapping = EnumStringMap{
	0: "Equal",
	1: "NotEqual",
	2: "GreaterThan",
	3: "LessThan",
	4: "GreaterThanOrEqual",
	5: "LessThanOrEqual",
	6: "Contains",
	7: "In",
}

// ScalarKindMapping maps scalar kinds to their type names.
var ScalarKindMapping = EnumStringMap{
	0: "null",
	1: "int64",
	2: "float64",
	3: "string",
	4: "bool",
	5: "timestamp",
}

// ColumnKindMapping maps column kinds to their type names.
var ColumnKindMapping = EnumStringMap{
	0: "int64",
	1: "float64",
	2: "string",
	3: "bool",
	4: "timestamp",
}

// Default enum registry with common mappings.
var defaultEnumRegistry = func() *EnumRegistry {
	registry := NewEnumRegistry()
	registry.RegisterEnum("AggregationType", AggregationTypeMapping)
	registry.RegisterEnum("AggregationKeyName", AggregationKeyNameMapping)
	registry.RegisterEnum("FilterOperator", FilterOperatorMapping)
	registry.RegisterEnum("ScalarKind", ScalarKindMapping)
	registry.RegisterEnum("ColumnKind", ColumnKindMapping)
	return registry
}()

// FormatAggregationType formats an aggregation type enum value.
func FormatAggregationType(aggType int) string {
	return FormatEnum(aggType, AggregationTypeMapping)
}

// FormatAggregationKeyName formats an aggregation type as its result-key short name.
func FormatAggregationKeyName(aggType int) string {
	return FormatEnum(aggType, AggregationKeyNameMapping)
}

// FormatFilterOperator formats a filter operator enum value.
func FormatFilterOperator(op int) string {
	return FormatEnum(op, FilterOperatorMapping)
}

// FormatScalarKind formats a scalar kind enum value.
func FormatScalarKind(kind int) string {
	return FormatEnum(kind, ScalarKindMapping)
}

// FormatColumnKind formats a column kind enum value.
func FormatColumnKind(kind int) string {
	return FormatEnum(kind, ColumnKindMapping)
}

// StringToEnum provides utilities for parsing enum values from strings.
// Parsing is exact-match: the wire carries canonical literal names and a
// near-miss must surface as an unknown value, not silently map.
type StringToEnum struct {
	reverseMappings map[string]map[string]int
}

// NewStringToEnum creates a new StringToEnum instance.
func NewStringToEnum() *StringToEnum {
	return &StringToEnum{
		reverseMappings: make(map[string]map[string]int),
	}
}

// RegisterReverseMapping registers a reverse mapping for an enum type.
func (ste *StringToEnum) RegisterReverseMapping(typeName string, mapping EnumStringMap) {
	reverseMap := make(map[string]int, len(mapping))
	for value, str := range mapping {
		reverseMap[str] = value
	}
	ste.reverseMappings[typeName] = reverseMap
}

// ParseEnum parses a string to its enum value.
func (ste *StringToEnum) ParseEnum(typeName, str string) (int, bool) {
	if reverseMap, exists := ste.reverseMappings[typeName]; exists {
		if value, found := reverseMap[str]; found {
			return value, true
		}
	}
	return 0, false
}

// Default string-to-enum converter with common mappings.
var defaultStringToEnum = func() *StringToEnum {
	converter := NewStringToEnum()
	converter.RegisterReverseMapping("AggregationType", AggregationTypeMapping)
	converter.RegisterReverseMapping("FilterOperator", FilterOperatorMapping)
	return converter
}()

// ParseAggregationType parses a canonical aggregation type name.
func ParseAggregationType(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("AggregationType", str)
}

// ParseFilterOperator parses a canonical filter operator name.
func ParseFilterOperator(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("FilterOperator", str)
}
