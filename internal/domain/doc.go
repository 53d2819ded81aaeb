// Package domain defines the core data models, error taxonomy and contracts
// shared across sotto. It contains plain types and interfaces only.
package domain
