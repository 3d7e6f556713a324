// Package assets carries the default swagger-ui bundle compiled into the binary.
package assets

import "embed"

// Root is the directory inside FS that holds the UI.
const Root = "swagger-ui"

//go:embed swagger-ui
var FS embed.FS
