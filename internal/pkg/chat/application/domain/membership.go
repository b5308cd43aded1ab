package chat

import "time"

// Role expresses the permission level within a group conversation.
// Wire mapping: 0=member, 1=admin, 2=creator.
// One-to-one conversations only ever hold RoleMember rows.
type Role int16

const (
	RoleMember  Role = 0
	RoleAdmin   Role = 1
	RoleCreator Role = 2
)

// Membership is the (user, conversation, role) relationship record.
// Primary key: (ConversationID, UserID). Exactly one row per pair.
type Membership struct {
	ConversationID int64     `db:"conversation_id"`
	UserID         int64     `db:"user_id"`
	Role           Role      `db:"role"`
	JoinedAt       time.Time `db:"joined_at"`
}

// CanManage reports whether the role may add members or rename the group.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleCreator
}

// CanRemove reports whether a requester with this role may remove a member
// holding the target role. The creator is never removable; admins fall only
// to the creator; plain members fall to admins and the creator.
func (r Role) CanRemove(target Role) bool {
	switch target {
	case RoleCreator:
		return false
	case RoleAdmin:
		return r == RoleCreator
	default:
		return r.CanManage()
	}
}

// Member is the hydrated view of a membership row joined with its user,
// as returned to listing operations.
type Member struct {
	UserID   int64      `db:"user_id"`
	Username string     `db:"username"`
	IsOnline bool       `db:"is_online"`
	LastSeen *time.Time `db:"last_seen"`
	Role     Role       `db:"role"`
	JoinedAt time.Time  `db:"joined_at"`
}

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleAdmin:
		return "admin"
	default:
		return "member"
	}
}
