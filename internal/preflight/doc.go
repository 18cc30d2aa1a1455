// Package preflight provides readiness checks for the filesystem paths and
// external tools that vidindex depends on.
//
// These checks run in two contexts:
//   - The pipeline calls RunAll when it opens, refusing to start work
//     against an unwritable storage root or a nearly full disk.
//   - The CLI "vidindex status" command uses CheckSystemDeps and the
//     individual check functions to display tool and path health.
//
// Engine-specific checks only run for the configured engine.
package preflight
