// Package fileutil provides small filesystem helpers used while resolving
// backend paths and preparing the diagnostic log directory.
package fileutil
