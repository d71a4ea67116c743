// Package web carries the HTML templates and static assets compiled into the
// binary, so the server runs from any working directory.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed public
var Public embed.FS
