// Package directory is the HTTP client for the external user-directory
// collaborator: it publishes the local public key and fetches peers' keys.
// The core never calls it directly; only the session layer does, with a
// time-bounded HTTP client.
package directory
