package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sotto/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// storedEnvelope tracks one queued ciphertext and its delivery state.
type storedEnvelope struct {
	env         domain.Envelope
	receivedAt  time.Time
	deliveredAt time.Time // zero until pushed over a stream
}

type keyRecord struct {
	PublicKey []byte `json:"public_key"`
}

type server struct {
	log    *zap.Logger
	grace  time.Duration
	maxAge time.Duration

	mu    sync.Mutex
	keys  map[domain.UserID][]byte
	boxes map[domain.UserID][]*storedEnvelope
	conns map[domain.UserID]*websocket.Conn
}

func newServer(log *zap.Logger, grace, maxAge time.Duration) *server {
	return &server{
		log:    log,
		grace:  grace,
		maxAge: maxAge,
		keys:   make(map[domain.UserID][]byte),
		boxes:  make(map[domain.UserID][]*storedEnvelope),
		conns:  make(map[domain.UserID]*websocket.Conn),
	}
}

func (s *server) putKey(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(mux.Vars(r)["user"])
	defer r.Body.Close()

	var rec keyRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || len(rec.PublicKey) == 0 {
		http.Error(w, "invalid key record", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.keys[user] = rec.PublicKey
	s.mu.Unlock()
	s.log.Info("stored public key", zap.String("user", string(user)))
	w.WriteHeader(http.StatusOK)
}

func (s *server) getKey(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(mux.Vars(r)["user"])

	s.mu.Lock()
	pub, ok := s.keys[user]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(keyRecord{PublicKey: pub})
}

func (s *server) postMessage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var env domain.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if env.ID == "" || env.From == "" || env.To == "" {
		http.Error(w, "missing envelope fields", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	se := &storedEnvelope{env: env, receivedAt: time.Now()}
	s.boxes[env.To] = append(s.boxes[env.To], se)
	if conn, ok := s.conns[env.To]; ok {
		if err := conn.WriteJSON(env); err == nil {
			se.deliveredAt = time.Now()
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (s *server) stream(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(r.URL.Query().Get("user"))
	if user == "" {
		http.Error(w, "user required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// Replace any previous connection and replay the pending mailbox.
	s.mu.Lock()
	if old, ok := s.conns[user]; ok {
		old.Close()
	}
	s.conns[user] = conn
	for _, se := range s.boxes[user] {
		if !se.deliveredAt.IsZero() {
			continue
		}
		if err := conn.WriteJSON(se.env); err == nil {
			se.deliveredAt = time.Now()
		}
	}
	s.mu.Unlock()

	s.log.Info("stream attached", zap.String("user", string(user)))

	// Clients never send application data; read until the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	if s.conns[user] == conn {
		delete(s.conns, user)
	}
	s.mu.Unlock()
	conn.Close()
	s.log.Info("stream detached", zap.String("user", string(user)))
}
