// Package cli provides the interactive PayShield command-line client.
//
// It wires configuration, the local session store, the HTTP API client,
// the transactions page cache and an interactive REPL. Typical flow:
// restore any stored session, then execute user commands against the
// fraud-risk backend.
//
// Key features:
//   - Signup / Login / Logout with a persisted session
//   - Submit a transaction and see the risk decision
//   - List / Show transactions with cached pagination
//   - Bulk upload a CSV/Excel file and watch the job progress
//   - Account risk summary
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
