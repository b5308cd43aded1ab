package adapter

import (
	"context"
	"errors"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgChatRepository persists the chat domain in Postgres. All multi-row writes
// go through an explicit transaction; single UPDATE statements rely on row
// atomicity instead.
type PgChatRepository struct {
	logger *zap.SugaredLogger
	pool   *pgxpool.Pool
}

func NewPgChatRepository(logger *zap.SugaredLogger, pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{logger: logger, pool: pool}
}

const messageColumns = "id, conversation_id, sender_id, content, msg_type, file_url, file_name, file_size, sent_at, status"

func (r *PgChatRepository) CreateOneToOne(ctx context.Context, userID1, userID2 int64) (chat.Conversation, bool, error) {
	r.logger.Debugf("creating one-to-one conversation for users %d and %d", userID1, userID2)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Conversation{}, false, err
	}
	// error handling can be omitted for rollback, see pgx docs on Rollback
	defer tx.Rollback(context.Background())

	// serialize creates per unordered pair: under read committed two concurrent
	// transactions would otherwise both miss the lookup and both insert. The
	// lock is released at commit or rollback.
	_, err = tx.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtextextended('chat:one_to_one:' || least($1, $2) || ':' || greatest($1, $2), 0))
	`, userID1, userID2)
	if err != nil {
		return chat.Conversation{}, false, err
	}

	var conv chat.Conversation
	err = tx.QueryRow(ctx, `
		SELECT c.id, c.kind, c.name, c.created_at, c.is_active
		FROM chat.conversations c
		WHERE c.kind = $3 AND c.is_active
		  AND EXISTS (SELECT 1 FROM chat.memberships m WHERE m.conversation_id = c.id AND m.user_id = $1)
		  AND EXISTS (SELECT 1 FROM chat.memberships m WHERE m.conversation_id = c.id AND m.user_id = $2)
		  AND (SELECT count(*) FROM chat.memberships m WHERE m.conversation_id = c.id) = 2
		LIMIT 1
	`, userID1, userID2, chat.KindOneToOne).Scan(&conv.ID, &conv.Kind, &conv.Name, &conv.CreatedAt, &conv.IsActive)
	if err == nil {
		return conv, true, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, false, err
	}

	now := time.Now().UTC()
	conv = chat.NewOneToOne(now)
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversations (kind, name, created_at, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, conv.Kind, conv.Name, conv.CreatedAt, conv.IsActive).Scan(&conv.ID)
	if err != nil {
		return chat.Conversation{}, false, err
	}

	for _, uid := range []int64{userID1, userID2} {
		_, err = tx.Exec(ctx, `
			INSERT INTO chat.memberships (conversation_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`, conv.ID, uid, chat.RoleMember, now)
		if err != nil {
			return chat.Conversation{}, false, classifyMembershipErr(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return chat.Conversation{}, false, err
	}
	return conv, false, nil
}

func (r *PgChatRepository) CreateGroup(ctx context.Context, conv chat.Conversation, creatorID int64, memberIDs []int64) (chat.Conversation, error) {
	r.logger.Debugf("creating group conversation (%v) with creator %d and %d members", conv.Name, creatorID, len(memberIDs))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Conversation{}, err
	}
	defer tx.Rollback(context.Background())

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversations (kind, name, created_at, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, conv.Kind, conv.Name, conv.CreatedAt, conv.IsActive).Scan(&conv.ID)
	if err != nil {
		return chat.Conversation{}, err
	}

	now := conv.CreatedAt
	_, err = tx.Exec(ctx, `
		INSERT INTO chat.memberships (conversation_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, conv.ID, creatorID, chat.RoleCreator, now)
	if err != nil {
		return chat.Conversation{}, classifyMembershipErr(err)
	}

	for _, uid := range memberIDs {
		if uid == creatorID {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO chat.memberships (conversation_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, conv.ID, uid, chat.RoleMember, now)
		if err != nil {
			return chat.Conversation{}, classifyMembershipErr(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}

func (r *PgChatRepository) FindConversation(ctx context.Context, id int64) (*chat.Conversation, error) {
	var conv chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id, kind, name, created_at, is_active
		FROM chat.conversations
		WHERE id = $1 AND is_active
	`, id).Scan(&conv.ID, &conv.Kind, &conv.Name, &conv.CreatedAt, &conv.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *PgChatRepository) ListUserConversations(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.kind, c.name, c.created_at, c.is_active
		FROM chat.conversations c
		JOIN chat.memberships m ON m.conversation_id = c.id
		LEFT JOIN LATERAL (
			SELECT max(sent_at) AS last_at FROM chat.messages WHERE conversation_id = c.id
		) lm ON true
		WHERE c.is_active AND m.user_id = $1
		ORDER BY COALESCE(lm.last_at, c.created_at) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var conv chat.Conversation
		if err := rows.Scan(&conv.ID, &conv.Kind, &conv.Name, &conv.CreatedAt, &conv.IsActive); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (r *PgChatRepository) UpdateName(ctx context.Context, conversationID int64, name string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.conversations SET name = $2 WHERE id = $1 AND kind = $3 AND is_active
	`, conversationID, name, chat.KindGroup)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrConversationNotFound
	}
	return nil
}

func (r *PgChatRepository) DeleteConversation(ctx context.Context, conversationID int64) ([]string, error) {
	r.logger.Debugf("deleting conversation %d with cascade", conversationID)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(context.Background())

	rows, err := tx.Query(ctx, `
		SELECT file_url FROM chat.messages
		WHERE conversation_id = $1 AND file_url IS NOT NULL
	`, conversationID)
	if err != nil {
		return nil, err
	}
	var fileURLs []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			rows.Close()
			return nil, err
		}
		fileURLs = append(fileURLs, url)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, "DELETE FROM chat.messages WHERE conversation_id = $1", conversationID); err != nil {
		return nil, err
	}
	if _, err = tx.Exec(ctx, "DELETE FROM chat.memberships WHERE conversation_id = $1", conversationID); err != nil {
		return nil, err
	}
	ct, err := tx.Exec(ctx, "DELETE FROM chat.conversations WHERE id = $1", conversationID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, chat.ErrConversationNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fileURLs, nil
}

func (r *PgChatRepository) AddMembership(ctx context.Context, m chat.Membership) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.memberships (conversation_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, m.ConversationID, m.UserID, m.Role, m.JoinedAt)
	return classifyMembershipErr(err)
}

func (r *PgChatRepository) RemoveMembership(ctx context.Context, conversationID, userID int64) error {
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.memberships WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrNotMember
	}
	return nil
}

func (r *PgChatRepository) RoleOf(ctx context.Context, conversationID, userID int64) (chat.Role, error) {
	var role chat.Role
	err := r.pool.QueryRow(ctx, `
		SELECT role FROM chat.memberships WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, chat.ErrNotMember
	}
	if err != nil {
		return 0, err
	}
	return role, nil
}

func (r *PgChatRepository) SetRole(ctx context.Context, conversationID, userID int64, expected, next chat.Role) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.memberships SET role = $4
		WHERE conversation_id = $1 AND user_id = $2 AND role = $3
	`, conversationID, userID, expected, next)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgChatRepository) IsMember(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chat.memberships WHERE conversation_id = $1 AND user_id = $2)
	`, conversationID, userID).Scan(&exists)
	return exists, err
}

func (r *PgChatRepository) ListMembers(ctx context.Context, conversationID int64) ([]chat.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.is_online, u.last_seen, m.role, m.joined_at
		FROM chat.memberships m
		JOIN chat.users u ON u.id = m.user_id
		WHERE m.conversation_id = $1
		ORDER BY m.joined_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []chat.Member
	for rows.Next() {
		var mb chat.Member
		if err := rows.Scan(&mb.UserID, &mb.Username, &mb.IsOnline, &mb.LastSeen, &mb.Role, &mb.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, mb)
	}
	return members, rows.Err()
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.messages (conversation_id, sender_id, content, msg_type, file_url, file_name, file_size, sent_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, m.ConversationID, m.SenderID, m.Content, m.MsgType, m.FileURL, m.FileName, m.FileSize, m.SentAt, m.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, chat.ErrConversationNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *PgChatRepository) FindMessage(ctx context.Context, id int64) (*chat.Message, error) {
	var m chat.Message
	err := r.pool.QueryRow(ctx,
		"SELECT "+messageColumns+" FROM chat.messages WHERE id = $1", id,
	).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.MsgType, &m.FileURL, &m.FileName, &m.FileSize, &m.SentAt, &m.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID int64, page, pageSize int) ([]chat.Message, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM chat.messages
		WHERE conversation_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3
	`, conversationID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.MsgType, &m.FileURL, &m.FileName, &m.FileSize, &m.SentAt, &m.Status); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) LastMessage(ctx context.Context, conversationID int64) (*chat.Message, error) {
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM chat.messages
		WHERE conversation_id = $1
		ORDER BY sent_at DESC
		LIMIT 1
	`, conversationID).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.MsgType, &m.FileURL, &m.FileName, &m.FileSize, &m.SentAt, &m.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) MarkDelivered(ctx context.Context, conversationID, userID int64) ([]int64, error) {
	// a single UPDATE keeps the batch all-or-nothing
	rows, err := r.pool.Query(ctx, `
		UPDATE chat.messages SET status = $3
		WHERE conversation_id = $1 AND sender_id <> $2 AND status = $4
		RETURNING id
	`, conversationID, userID, chat.StatusDelivered, chat.StatusSent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgChatRepository) AdvanceStatus(ctx context.Context, messageID int64, next chat.MessageStatus) (bool, error) {
	// the status < next guard makes the advance monotonic under races
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.messages SET status = $2 WHERE id = $1 AND status < $2
	`, messageID, next)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgChatRepository) DeleteMessage(ctx context.Context, messageID int64) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM chat.messages WHERE id = $1", messageID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (r *PgChatRepository) UnreadCount(ctx context.Context, conversationID, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM chat.messages
		WHERE conversation_id = $1 AND sender_id <> $2 AND status <> $3
	`, conversationID, userID, chat.StatusSeen).Scan(&count)
	return count, err
}

// classifyMembershipErr maps postgres constraint violations onto domain errors.
func classifyMembershipErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return chat.ErrAlreadyMember
		case pgerrcode.ForeignKeyViolation:
			return chat.ErrUserNotFound
		}
	}
	return err
}
