package app

import (
	"net/http"

	"go.uber.org/zap"

	"sotto/internal/domain"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string        // data directory, e.g. $HOME/.sotto
	Passphrase string        // seals the identity key pair at rest
	ServerURL  string        // directory/transport base URL, e.g. http://127.0.0.1:8080
	User       domain.UserID // local user identifier
	HTTP       *http.Client  // optional; defaults to a 10s-timeout client
	Logger     *zap.Logger   // optional; defaults to zap.NewNop()
}
