// Package cli provides the interactive CloudSphere command-line client.
//
// It wires configuration, local preferences, the identity lifecycle, the
// session manager and the file services, then runs a REPL. Typical flow:
// restore a previous identity or prompt for a token, register the account
// on first use, then upload, list and delete files. Admins also get the
// all-files, users and storage views.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
