// Package dataprocessing reads the raw bank statement extracts from
// disk. It performs no business interpretation: rows come out as
// untyped string records and all parsing, filtering and validation
// happens in the scorecard normalizer.
//
// Two inputs are supported, both comma-delimited with a header row:
// the transaction extract (one row per booked transaction) and the
// day-end balance extract (one row per account per reported day).
// Column order is free; columns are located by header name.
package dataprocessing
