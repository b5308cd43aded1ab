package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	blob "go-parley/internal/infrastructure/blob/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	user "go-parley/internal/pkg/user/domain"
)

// In-memory doubles for the persistence ports, honoring the same error
// contracts as the postgres adapters.

type memChatRepo struct {
	mu         sync.Mutex
	nextConvID int64
	nextMsgID  int64
	convs      map[int64]*chat.Conversation
	members    map[int64]map[int64]chat.Membership
	msgs       map[int64]*chat.Message
	users      *memUserRepo
}

func newMemChatRepo(users *memUserRepo) *memChatRepo {
	return &memChatRepo{
		convs:   make(map[int64]*chat.Conversation),
		members: make(map[int64]map[int64]chat.Membership),
		msgs:    make(map[int64]*chat.Message),
		users:   users,
	}
}

func (r *memChatRepo) CreateOneToOne(ctx context.Context, userID1, userID2 int64) (chat.Conversation, bool, error) {
	// locked like the pg adapter's per-pair advisory lock, so concurrent
	// callers converge on one conversation
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, conv := range r.convs {
		if conv.Kind != chat.KindOneToOne || !conv.IsActive {
			continue
		}
		mm := r.members[id]
		if len(mm) != 2 {
			continue
		}
		if _, ok1 := mm[userID1]; !ok1 {
			continue
		}
		if _, ok2 := mm[userID2]; ok2 {
			return *conv, true, nil
		}
	}

	r.nextConvID++
	conv := &chat.Conversation{ID: r.nextConvID, Kind: chat.KindOneToOne, CreatedAt: time.Now().UTC(), IsActive: true}
	r.convs[conv.ID] = conv
	r.members[conv.ID] = map[int64]chat.Membership{
		userID1: {ConversationID: conv.ID, UserID: userID1, Role: chat.RoleMember, JoinedAt: conv.CreatedAt},
		userID2: {ConversationID: conv.ID, UserID: userID2, Role: chat.RoleMember, JoinedAt: conv.CreatedAt},
	}
	return *conv, false, nil
}

func (r *memChatRepo) CreateGroup(ctx context.Context, conv chat.Conversation, creatorID int64, memberIDs []int64) (chat.Conversation, error) {
	r.nextConvID++
	conv.ID = r.nextConvID
	r.convs[conv.ID] = &conv

	mm := map[int64]chat.Membership{
		creatorID: {ConversationID: conv.ID, UserID: creatorID, Role: chat.RoleCreator, JoinedAt: conv.CreatedAt},
	}
	for _, id := range memberIDs {
		if id == creatorID {
			continue
		}
		mm[id] = chat.Membership{ConversationID: conv.ID, UserID: id, Role: chat.RoleMember, JoinedAt: conv.CreatedAt}
	}
	r.members[conv.ID] = mm
	return conv, nil
}

func (r *memChatRepo) FindConversation(ctx context.Context, id int64) (*chat.Conversation, error) {
	conv, ok := r.convs[id]
	if !ok || !conv.IsActive {
		return nil, chat.ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *memChatRepo) ListUserConversations(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for id, conv := range r.convs {
		if !conv.IsActive {
			continue
		}
		if _, ok := r.members[id][userID]; ok {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memChatRepo) UpdateName(ctx context.Context, conversationID int64, name string) error {
	conv, ok := r.convs[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	conv.Name = &name
	return nil
}

func (r *memChatRepo) DeleteConversation(ctx context.Context, conversationID int64) ([]string, error) {
	if _, ok := r.convs[conversationID]; !ok {
		return nil, chat.ErrConversationNotFound
	}
	var urls []string
	for id, m := range r.msgs {
		if m.ConversationID != conversationID {
			continue
		}
		if m.IsMedia() {
			urls = append(urls, *m.FileURL)
		}
		delete(r.msgs, id)
	}
	delete(r.members, conversationID)
	delete(r.convs, conversationID)
	return urls, nil
}

func (r *memChatRepo) AddMembership(ctx context.Context, m chat.Membership) error {
	mm, ok := r.members[m.ConversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	if _, exists := mm[m.UserID]; exists {
		return chat.ErrAlreadyMember
	}
	mm[m.UserID] = m
	return nil
}

func (r *memChatRepo) RemoveMembership(ctx context.Context, conversationID, userID int64) error {
	mm := r.members[conversationID]
	if _, ok := mm[userID]; !ok {
		return chat.ErrNotMember
	}
	delete(mm, userID)
	return nil
}

func (r *memChatRepo) RoleOf(ctx context.Context, conversationID, userID int64) (chat.Role, error) {
	m, ok := r.members[conversationID][userID]
	if !ok {
		return 0, chat.ErrNotMember
	}
	return m.Role, nil
}

func (r *memChatRepo) SetRole(ctx context.Context, conversationID, userID int64, expected, next chat.Role) (bool, error) {
	mm := r.members[conversationID]
	m, ok := mm[userID]
	if !ok || m.Role != expected {
		return false, nil
	}
	m.Role = next
	mm[userID] = m
	return true, nil
}

func (r *memChatRepo) IsMember(ctx context.Context, conversationID, userID int64) (bool, error) {
	_, ok := r.members[conversationID][userID]
	return ok, nil
}

func (r *memChatRepo) ListMembers(ctx context.Context, conversationID int64) ([]chat.Member, error) {
	var out []chat.Member
	for _, m := range r.members[conversationID] {
		member := chat.Member{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
		if r.users != nil {
			if u, ok := r.users.byID[m.UserID]; ok {
				member.Username = u.Username
				member.IsOnline = u.IsOnline
				member.LastSeen = u.LastSeen
			}
		}
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memChatRepo) SaveMessage(ctx context.Context, m chat.Message) (int64, error) {
	r.nextMsgID++
	m.ID = r.nextMsgID
	r.msgs[m.ID] = &m
	return m.ID, nil
}

func (r *memChatRepo) FindMessage(ctx context.Context, id int64) (*chat.Message, error) {
	m, ok := r.msgs[id]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memChatRepo) ListMessages(ctx context.Context, conversationID int64, page, pageSize int) ([]chat.Message, error) {
	var all []chat.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			all = append(all, *m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memChatRepo) LastMessage(ctx context.Context, conversationID int64) (*chat.Message, error) {
	msgs, _ := r.ListMessages(ctx, conversationID, 1, 1)
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

func (r *memChatRepo) MarkDelivered(ctx context.Context, conversationID, userID int64) ([]int64, error) {
	var ids []int64
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.SenderID != userID && m.Status == chat.StatusSent {
			m.Status = chat.StatusDelivered
			ids = append(ids, m.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *memChatRepo) AdvanceStatus(ctx context.Context, messageID int64, next chat.MessageStatus) (bool, error) {
	m, ok := r.msgs[messageID]
	if !ok {
		return false, chat.ErrMessageNotFound
	}
	if !m.Status.CanAdvanceTo(next) {
		return false, nil
	}
	m.Status = next
	return true, nil
}

func (r *memChatRepo) DeleteMessage(ctx context.Context, messageID int64) error {
	if _, ok := r.msgs[messageID]; !ok {
		return chat.ErrMessageNotFound
	}
	delete(r.msgs, messageID)
	return nil
}

func (r *memChatRepo) UnreadCount(ctx context.Context, conversationID, userID int64) (int, error) {
	count := 0
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.SenderID != userID && m.Status != chat.StatusSeen {
			count++
		}
	}
	return count, nil
}

type memUserRepo struct {
	nextID int64
	byID   map[int64]*user.User
	byName map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[int64]*user.User), byName: make(map[string]*user.User)}
}

func (r *memUserRepo) add(username string) *user.User {
	r.nextID++
	u := &user.User{ID: r.nextID, Username: username, CreatedAt: time.Now().UTC()}
	r.byID[u.ID] = u
	r.byName[username] = u
	return u
}

func (r *memUserRepo) Create(ctx context.Context, u user.User) (int64, error) {
	if _, exists := r.byName[u.Username]; exists {
		return 0, user.ErrUsernameTaken
	}
	created := r.add(u.Username)
	created.PasswordHash = u.PasswordHash
	return created.ID, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := r.byName[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ResolveUsernames(ctx context.Context, usernames []string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, name := range usernames {
		if u, ok := r.byName[name]; ok {
			out[name] = u.ID
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdatePresence(ctx context.Context, id int64, online bool) error {
	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsOnline = online
	now := time.Now().UTC()
	u.LastSeen = &now
	return nil
}

type memBlobStore struct {
	nextID int
	blobs  map[string][]byte
}

func (s *memBlobStore) Save(ctx context.Context, r io.Reader, originalName string, contentType string) (blob.StoredBlob, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return blob.StoredBlob{}, err
	}
	s.nextID++
	url := fmt.Sprintf("/uploads/%d", s.nextID)
	s.blobs[url] = data
	return blob.StoredBlob{URL: url, Name: originalName, Size: int64(len(data))}, nil
}

func (s *memBlobStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	data, ok := s.blobs[url]
	if !ok {
		return nil, fmt.Errorf("blob %q not found", url)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBlobStore) Delete(ctx context.Context, url string) error {
	delete(s.blobs, url)
	return nil
}
