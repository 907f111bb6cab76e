// Package scaffold embeds the starter project written by chartaxis init. The
// embedded filesystem is rooted at "project/" and holds chartaxis.yml and an
// example chart under charts/.
package scaffold

import "embed"

// Root is the directory inside FS that maps onto the target project.
const Root = "project"

// FS contains the embedded project files.
//
//go:embed all:project
var FS embed.FS
