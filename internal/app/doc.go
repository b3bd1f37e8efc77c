// Package app contains the application logic behind the rtnet commands. It
// owns the logger, the primitive registry and the HTTP endpoints, and runs
// network files and simulated device motions, decoupled from the CLI that
// fills its Config.
package app
