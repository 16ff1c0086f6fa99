package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrUnknownFormat      = errors.New("unknown output format")
	ErrStdinWrite         = errors.New("cannot rewrite standard input")
	ErrUnstable           = errors.New("formatting is not stable")
	ErrOutputConflict     = errors.New("output must be a directory for several inputs")
)
