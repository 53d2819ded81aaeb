// Package app wires stores, services and collaborator clients into the
// dependency graph used by the CLI.
package app
