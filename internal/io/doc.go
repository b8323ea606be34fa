// Package ioutils provides file system utilities for stemline.
//
// This package contains functions for:
//   - Copying and moving files with byte progress
//   - Atomic file writes
//   - Directory creation
//
// Writes go to a temporary ".part" file next to the destination and are
// renamed into place only once complete, so a destination path either
// holds a whole file or nothing. Functions that accept a context.Context
// stop copying when it is cancelled and remove the partial file.
package ioutils
