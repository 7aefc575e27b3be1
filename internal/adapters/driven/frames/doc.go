// Package frames reads tabular borehole input into domain frames.
//
// Readers:
//   - CSVReader: one frame per file, ";" "," or tab delimited
//   - XLSXReader: one frame per non-empty sheet, keyed by sheet name
//   - Reader: dispatches to the first reader supporting a path
package frames
