// Package cli provides the neatly command-line client.
//
// It wires configuration, the REST and gRPC clients and the session file,
// then either runs a single command given on the command line or, without
// one, an interactive REPL.
//
// Commands:
//   - register, login, logout
//   - me (REST), whoami (gRPC), refresh
//   - avatar <file>: upload a profile picture through a presigned URL
//   - status: gRPC health check
//
// Passwords are read from the terminal without echo and wiped after use.
package cli
