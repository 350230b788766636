package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no project, invalid litbib.yml)
	ExitDataError   = 3 // Data error (malformed bib file, check findings)
	ExitUnresolved  = 4 // Review queue still has items without a usable action
)
