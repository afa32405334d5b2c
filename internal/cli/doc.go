// Package cli implements the eventlog command line: the HTTP service
// (serve), local access to the same operations (add, list, count,
// status) and the scenario runner (test).
package cli
