// Package transport is the client for the external message-delivery
// collaborator. Sends go over HTTP; inbound envelopes arrive on a websocket
// stream exposed as a channel plus an explicit cancel function. The remote
// side is ephemeral and best-effort: delivery is at-least-once, retention is
// short, and nothing here is treated as durable.
package transport
