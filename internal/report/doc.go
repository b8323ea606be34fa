// Package report collects stage events and renders the completion report.
//
// The Aggregator is append-only. Render groups events by stage, in
// pipeline order, and tags each section with the outcome of its last
// event. Events carrying a source (for example a download method) are
// listed under a "<SOURCE> BREAKDOWN" heading. Detail events, the trace
// lines of a failed engine, only appear in a failure report.
package report
