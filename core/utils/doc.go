// Package utils provides common utility functions for the prompt-console application.
// It centers on loose type coercion for values read out of schemaless documents,
// where numbers may arrive as float64, strings, or byte slices depending on the
// storage backend and JSON decoding path.
package utils
