// Package app wires the tickdemo daemon: config loading and hot reload,
// logging, run-history storage, the configured periodic tasks, and the
// optional systemd readiness/watchdog integration.
package app
