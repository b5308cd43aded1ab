package realtime

import "sync"

// Presence is the in-memory bidirectional index of user ids and their live
// connection ids. A user may hold several connections at once (one per
// device); the user counts as online while at least one remains.
//
// Presence holds no persistence dependency: the offline transition reported by
// RemoveConnection lets the caller trigger a last-seen write. State is
// authoritative only for this process instance.
type Presence struct {
	mu                sync.Mutex
	connectionToUser  map[string]int64
	userToConnections map[int64]map[string]struct{}
}

func NewPresence() *Presence {
	return &Presence{
		connectionToUser:  make(map[string]int64),
		userToConnections: make(map[int64]map[string]struct{}),
	}
}

// AddConnection registers a live connection for the user. Registering the same
// connection id twice is a no-op.
func (p *Presence) AddConnection(userID int64, connectionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.connectionToUser[connectionID] = userID

	conns := p.userToConnections[userID]
	if conns == nil {
		conns = make(map[string]struct{})
		p.userToConnections[userID] = conns
	}
	conns[connectionID] = struct{}{}
}

// RemoveConnection drops the mapping for connectionID. It reports which user
// owned the connection and whether that user just went offline (their last
// connection closed). Unknown ids are a no-op: sessions may double-report
// disconnects.
func (p *Presence) RemoveConnection(connectionID string) (userID int64, offline bool, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok = p.connectionToUser[connectionID]
	if !ok {
		return 0, false, false
	}
	delete(p.connectionToUser, connectionID)

	if conns := p.userToConnections[userID]; conns != nil {
		delete(conns, connectionID)
		if len(conns) == 0 {
			delete(p.userToConnections, userID)
			offline = true
		}
	}
	return userID, offline, true
}

// IsOnline reports whether the user currently holds at least one connection.
func (p *Presence) IsOnline(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.userToConnections[userID]) > 0
}

// Connections returns a snapshot copy of the user's live connection ids.
func (p *Presence) Connections(userID int64) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	conns := p.userToConnections[userID]
	out := make([]string, 0, len(conns))
	for id := range conns {
		out = append(out, id)
	}
	return out
}

// UserOf returns the owner of a connection id, if it is still tracked.
func (p *Presence) UserOf(connectionID string) (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.connectionToUser[connectionID]
	return id, ok
}

// ConnectionCount reports the total number of live connections.
func (p *Presence) ConnectionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connectionToUser)
}
