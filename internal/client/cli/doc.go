// Package cli provides the interactive AirControl command-line client.
//
// It wires configuration, local storage, API services and an interactive
// REPL that keeps working offline. Typical flow: restore the saved session
// or prompt for credentials, start a background connectivity watcher, and
// execute user commands.
//
// Key features:
//   - Login / Logout (online, with optional offline login)
//   - List, count, show, create, update status and delete work orders
//   - Technician and user registration
//   - Address geocoding for the create form
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
