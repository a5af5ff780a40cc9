// Package web carries the unsubscribe page shared by every host.
package web

import _ "embed"

// Page is the default unsubscribe page.
//
//go:embed index.html
var Page string
