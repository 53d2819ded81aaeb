package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sotto/internal/cipher"
	"sotto/internal/domain"
)

// State is the session lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateKeysReady
	StateSecretReady
	StateActive
)

func (s State) String() string {
	switch s {
	case StateKeysReady:
		return "keys-ready"
	case StateSecretReady:
		return "secret-ready"
	case StateActive:
		return "active"
	default:
		return "uninitialized"
	}
}

// Service drives one conversation between the local user and a single peer.
//
// Encryption and decryption themselves are pure; the mutex only guards the
// state machine and the cached key material.
type Service struct {
	self domain.UserID
	peer domain.UserID

	ids       domain.IdentityService
	secrets   domain.SecretService
	messages  domain.MessageStore
	directory domain.Directory
	transport domain.Transport
	log       *zap.Logger

	// OnMessage, when set before Run, is invoked after each received message
	// is persisted.
	OnMessage func(domain.StoredMessage)

	mu     sync.Mutex
	state  State
	keys   domain.KeyPair
	secret domain.SecretKey
}

// New constructs a session for the conversation between self and peer.
func New(
	self, peer domain.UserID,
	ids domain.IdentityService,
	secrets domain.SecretService,
	messages domain.MessageStore,
	directory domain.Directory,
	transport domain.Transport,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		self:      self,
		peer:      peer,
		ids:       ids,
		secrets:   secrets,
		messages:  messages,
		directory: directory,
		transport: transport,
		log:       log,
	}
}

// State reports the current lifecycle position.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConversationID returns the identifier shared by both participants.
func (s *Service) ConversationID() domain.ConversationID {
	return domain.ConversationIDFor(s.self, s.peer)
}

// EnsureKeys loads or creates the local identity key pair and publishes its
// public half to the directory if that has not succeeded yet. The identity
// service itself never touches the network; publishing lives here.
//
// Publication is keyed on the persisted published marker, not on whether
// this call generated the pair: the pair is persisted before the first
// publish attempt, so a failed publish must be retried by a later
// EnsureKeys rather than skipped forever.
func (s *Service) EnsureKeys(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state >= StateKeysReady {
		return nil
	}
	kp, _, err := s.ids.EnsureKeyPair()
	if err != nil {
		return err
	}
	needs, err := s.ids.NeedsPublish()
	if err != nil {
		return err
	}
	if needs {
		if err := s.directory.PublishPublicKey(ctx, s.self, kp.Public); err != nil {
			return fmt.Errorf("publish public key: %w", err)
		}
		if err := s.ids.MarkPublished(); err != nil {
			return err
		}
		s.log.Info("published public key", zap.String("user", string(s.self)))
	}
	s.keys = kp
	s.state = StateKeysReady
	return nil
}

// SetupSharedKey establishes the symmetric key for this conversation and
// reports whether the session is now active.
//
// A cached secret activates the session without any network traffic. When
// the peer has not published a public key, SetupSharedKey returns
// (false, nil): the session stays in KeysReady and the caller surfaces the
// condition to the user instead of retrying derivation with missing
// material.
func (s *Service) SetupSharedKey(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
		return false, errors.New("session keys not ready; call EnsureKeys first")
	case StateActive:
		return true, nil
	}

	if key, ok, err := s.secrets.GetCached(s.peer); err != nil {
		return false, err
	} else if ok {
		s.secret = key
		s.state = StateActive
		return true, nil
	}

	pub, ok, err := s.directory.FetchPublicKey(ctx, s.peer)
	if err != nil {
		return false, fmt.Errorf("fetch peer public key: %w", err)
	}
	if !ok {
		s.log.Info("peer has not published a key yet", zap.String("peer", string(s.peer)))
		return false, nil
	}

	s.state = StateSecretReady
	key, err := s.secrets.GetOrDerive(s.peer, s.keys.Private, pub)
	if err != nil {
		s.state = StateKeysReady
		return false, err
	}
	s.secret = key
	s.state = StateActive
	return true, nil
}

// Send encrypts text, persists the plaintext locally and hands the
// ciphertext envelope to the transport. The local store is written first:
// the remote side is best-effort and ephemeral, the local store is the
// durable record.
func (s *Service) Send(ctx context.Context, text string) (domain.StoredMessage, error) {
	s.mu.Lock()
	state, key := s.state, s.secret
	s.mu.Unlock()

	if state != StateActive {
		return domain.StoredMessage{}, domain.ErrPeerNotConfigured
	}

	blob, err := cipher.Encrypt([]byte(text), key)
	if err != nil {
		return domain.StoredMessage{}, fmt.Errorf("encrypt message: %w", err)
	}
	msg := domain.StoredMessage{
		ID:             uuid.NewString(),
		ConversationID: s.ConversationID(),
		SenderID:       s.self,
		ReceiverID:     s.peer,
		Body:           text,
		CreatedAt:      time.Now().UnixMilli(),
	}
	if err := s.messages.Append(msg); err != nil {
		return domain.StoredMessage{}, err
	}
	env := domain.Envelope{
		ID:        msg.ID,
		From:      s.self,
		To:        s.peer,
		Cipher:    blob,
		SentAtUTC: msg.CreatedAt,
	}
	if err := s.transport.SendEncrypted(ctx, env); err != nil {
		return domain.StoredMessage{}, fmt.Errorf("send encrypted: %w", err)
	}
	return msg, nil
}

// Run subscribes to the transport and processes inbound envelopes until ctx
// is cancelled or the stream closes. Requires an active session.
func (s *Service) Run(ctx context.Context) error {
	if s.State() != StateActive {
		return domain.ErrPeerNotConfigured
	}
	ch, cancel, err := s.transport.Subscribe(ctx, s.self)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-ch:
			if !ok {
				return nil
			}
			s.Handle(env)
		}
	}
}

// Handle processes one inbound envelope: filter to this conversation,
// decrypt, persist.
//
// An envelope that fails authentication is logged and dropped; it must never
// surface as plaintext, and one bad envelope must not stop later ones from
// decrypting. Redelivered envelopes reuse the sender's message ID, so the
// store's upsert keeps exactly one copy. The sender's timestamp is kept so
// both participants order the conversation identically.
func (s *Service) Handle(env domain.Envelope) {
	if env.From != s.peer || env.To != s.self {
		return
	}
	s.mu.Lock()
	state, key := s.state, s.secret
	s.mu.Unlock()
	if state != StateActive {
		s.log.Warn("dropping envelope received before session is active",
			zap.String("from", string(env.From)),
			zap.String("id", env.ID))
		return
	}

	plaintext, err := cipher.Decrypt(env.Cipher, key)
	if err != nil {
		s.log.Warn("dropping undecryptable envelope",
			zap.String("from", string(env.From)),
			zap.String("id", env.ID),
			zap.Error(err))
		return
	}

	msg := domain.StoredMessage{
		ID:             env.ID,
		ConversationID: s.ConversationID(),
		SenderID:       env.From,
		ReceiverID:     env.To,
		Body:           string(plaintext),
		CreatedAt:      env.SentAtUTC,
	}
	if err := s.messages.Append(msg); err != nil {
		s.log.Error("persist received message",
			zap.String("id", msg.ID),
			zap.Error(err))
		return
	}
	if s.OnMessage != nil {
		s.OnMessage(msg)
	}
}

// History lists this conversation's messages, oldest first.
func (s *Service) History() ([]domain.StoredMessage, error) {
	return s.messages.ListByConversation(s.ConversationID())
}

// ClearHistory deletes every locally stored message across all
// conversations.
func (s *Service) ClearHistory() error {
	return s.messages.ClearAll()
}
