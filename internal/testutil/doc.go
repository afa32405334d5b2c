// Package testutil provides deterministic time and id sources for tests
// and the scenario harness.
package testutil
