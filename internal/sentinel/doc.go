// Package sentinel provides an immutable error type for sentinel error declarations.
//
// Sentinel errors declared with errors.New are package variables that any
// importer can reassign. Error is a string type, so sentinels declared with it
// can be constants and still work with errors.Is through wrapped chains.
package sentinel
