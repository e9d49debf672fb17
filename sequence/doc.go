// Package sequence cleans and validates protein sequences.
//
// Normalize turns user input (raw residues or FASTA text) into a Sequence:
// header lines starting with '>' and blank lines are dropped, whitespace is
// stripped, letters are uppercased, and the result must be at least
// MinLength residues over the 20 standard amino acids plus the X wildcard.
//
// The package also reads and writes FASTA and derives simple physicochemical
// properties (molecular weight, an approximate isoelectric point).
package sequence
