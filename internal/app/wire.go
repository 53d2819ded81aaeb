package app

import (
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"sotto/internal/directory"
	"sotto/internal/domain"
	identitysvc "sotto/internal/services/identity"
	secretsvc "sotto/internal/services/secret"
	sessionsvc "sotto/internal/services/session"
	"sotto/internal/store"
	"sotto/internal/transport"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	User      domain.UserID
	Identity  domain.IdentityService
	Secrets   domain.SecretService
	Messages  *store.MessageStore
	Directory domain.Directory
	Transport domain.Transport
	Logger    *zap.Logger

	kv *bolt.DB
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	kv, err := store.Open(filepath.Join(cfg.Home, "keys.db"))
	if err != nil {
		return nil, err
	}
	messages, err := store.NewMessageStore(filepath.Join(cfg.Home, "messages.db"))
	if err != nil {
		kv.Close()
		return nil, err
	}

	return &Wire{
		User:      cfg.User,
		Identity:  identitysvc.New(store.NewIdentityBoltStore(kv), cfg.Passphrase),
		Secrets:   secretsvc.New(store.NewSecretBoltStore(kv)),
		Messages:  messages,
		Directory: directory.NewClient(cfg.ServerURL, cfg.HTTP),
		Transport: transport.NewClient(cfg.ServerURL, cfg.HTTP),
		Logger:    logger,
		kv:        kv,
	}, nil
}

// NewSession builds a session for the conversation with peer.
func (w *Wire) NewSession(peer domain.UserID) *sessionsvc.Service {
	return sessionsvc.New(w.User, peer, w.Identity, w.Secrets, w.Messages, w.Directory, w.Transport, w.Logger)
}

// Close releases both databases.
func (w *Wire) Close() error {
	kvErr := w.kv.Close()
	msgErr := w.Messages.Close()
	if kvErr != nil {
		return kvErr
	}
	return msgErr
}
