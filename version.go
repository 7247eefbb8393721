package vaultdeck

import _ "embed"

// Version is the release version of vaultdeck, read from the VERSION file.
//
//go:embed VERSION
var Version string
