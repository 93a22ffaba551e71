// Package config provides configuration for csvtype.
//
// # Loading
//
// Configuration files are YAML. The order of col_type_patterns is kept: it
// is the order in which types are tried and the tie-break order when picking
// the most likely type of a column.
//
//	delimiter: ";"
//	multithreading: true
//	rolling_cache_window: 10
//	na_values: ["", "NA", "null"]
//	col_type_patterns:
//	  int: ['^[-+]?\d+$']
//	  alpha: ['^[a-zA-Z]+$']
//	types_filepath: ${OUTPUT_DIR}/data.ctypes
//
//	cfg, err := config.LoadFile("csvtype.yaml")
//
// ## Environment Variable Substitution
//
// ${VAR_NAME} references are replaced with the variable's value before the
// YAML is parsed. Unset variables become empty strings.
package config
