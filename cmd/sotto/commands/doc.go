// Package commands implements the sotto CLI: identity setup, sending,
// streaming, and local history for encrypted one-to-one conversations.
package commands
