// Package config holds the process configuration for the event log
// service. A Config is built once at startup (defaults, then an optional
// file, then environment variables) and passed by value to the server.
package config
