// Package exporter writes the account feature table to disk.
//
// Two formats are supported: a delimited CSV with the reporting
// warehouse column names, and an Excel workbook with the same table on
// a single sheet. Both render undefined metrics as empty cells so
// downstream consumers can tell "no data" apart from zero.
package exporter
