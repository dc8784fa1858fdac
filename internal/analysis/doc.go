// Package analysis derives the aggregates shown on the dashboard pages from
// a loaded dataset. Every function is pure: the same input records always
// produce the same output, and nothing is cached between calls.
package analysis
