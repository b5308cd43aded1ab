package realtime

import "sync"

// Router binds live connections to logical conversation channels and fans
// events out to subscribers. Channel membership ("actively viewing") is
// connection-scoped and distinct from presence ("has any live connection"):
// a connection must join a channel explicitly and stops receiving events the
// moment it detaches.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // connectionID -> connection
	userSessions map[int64]map[string]*Connection  // userID -> connectionID -> connection
	channels     map[int64]map[string]*Connection  // conversationID -> connectionID -> connection
	sessionSubs  map[string]map[int64]struct{}     // connectionID -> set of conversationIDs
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[int64]map[string]*Connection),
		channels:     make(map[int64]map[string]*Connection),
		sessionSubs:  make(map[string]map[int64]struct{}),
	}
}

// Attach registers a connection and starts its write loop. Multiple
// connections per user are allowed (one per device).
func (r *Router) Attach(conn *Connection) {
	r.mu.Lock()
	r.sessions[conn.ID] = conn
	byUser := r.userSessions[conn.UserID]
	if byUser == nil {
		byUser = make(map[string]*Connection)
		r.userSessions[conn.UserID] = byUser
	}
	byUser[conn.ID] = conn
	r.sessionSubs[conn.ID] = make(map[int64]struct{})
	r.mu.Unlock()

	conn.Start()
}

// Detach removes a connection and all of its channel subscriptions.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes the connection to the conversation channel.
func (r *Router) Join(conversationID int64, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}

	ch := r.channels[conversationID]
	if ch == nil {
		ch = make(map[string]*Connection)
		r.channels[conversationID] = ch
	}
	ch[conn.ID] = conn

	subs := r.sessionSubs[conn.ID]
	if subs == nil {
		subs = make(map[int64]struct{})
		r.sessionSubs[conn.ID] = subs
	}
	subs[conversationID] = struct{}{}
}

// Leave unsubscribes the connection from the conversation channel.
func (r *Router) Leave(conversationID int64, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(conversationID, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every connection subscribed to the conversation
// channel. excludeConnID, when non-empty, skips that connection (typically the
// one that originated the action). Delivery is at-most-once and best-effort;
// it returns the number of successful sends.
func (r *Router) Broadcast(conversationID int64, payload []byte, excludeConnID string) int {
	r.mu.RLock()
	ch := r.channels[conversationID]
	if len(ch) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range ch {
		if excludeConnID != "" && conn.ID == excludeConnID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// BroadcastExceptUser behaves like Broadcast but skips every connection owned
// by userID, for events the acting user should not echo back to any device.
func (r *Router) BroadcastExceptUser(conversationID int64, payload []byte, userID int64) int {
	r.mu.RLock()
	ch := r.channels[conversationID]
	if len(ch) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range ch {
		if conn.UserID == userID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// NotifyUser delivers payload to every live connection of the given user.
func (r *Router) NotifyUser(userID int64, payload []byte) bool {
	r.mu.RLock()
	byUser := r.userSessions[userID]
	conns := make([]*Connection, 0, len(byUser))
	for _, conn := range byUser {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	delivered := false
	for _, conn := range conns {
		if conn.Send(payload) == nil {
			delivered = true
		}
	}
	return delivered
}

// Subscribers returns a snapshot of connection ids subscribed to the channel.
func (r *Router) Subscribers(conversationID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch := r.channels[conversationID]
	out := make([]string, 0, len(ch))
	for id := range ch {
		out = append(out, id)
	}
	return out
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[int64]map[string]*Connection)
	r.channels = make(map[int64]map[string]*Connection)
	r.sessionSubs = make(map[string]map[int64]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(connectionID string) {
	conn, ok := r.sessions[connectionID]
	if !ok {
		return
	}
	delete(r.sessions, connectionID)

	if byUser := r.userSessions[conn.UserID]; byUser != nil {
		delete(byUser, connectionID)
		if len(byUser) == 0 {
			delete(r.userSessions, conn.UserID)
		}
	}

	for conversationID := range r.sessionSubs[connectionID] {
		r.leaveLocked(conversationID, connectionID)
	}
	delete(r.sessionSubs, connectionID)
}

func (r *Router) leaveLocked(conversationID int64, connectionID string) {
	ch := r.channels[conversationID]
	if ch == nil {
		return
	}
	delete(ch, connectionID)
	if len(ch) == 0 {
		delete(r.channels, conversationID)
	}
	if subs, ok := r.sessionSubs[connectionID]; ok {
		delete(subs, conversationID)
	}
}
