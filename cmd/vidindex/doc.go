// Package main hosts the vidindex CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into pipeline
// operations: ingesting videos, transcribing them, detecting scenes, and
// querying the index. Stage and query commands route through the action
// dispatch layer so --json output matches what an embedding host framework
// would receive.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
