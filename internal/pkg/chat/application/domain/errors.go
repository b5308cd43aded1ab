package chat

import "errors"

// Domain-level errors for chat behaviors. These are expected business outcomes,
// not infrastructure failures; callers branch on them with errors.Is.
var (
	// NotFound family
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrMessageNotFound      = errors.New("chat: message not found")
	ErrUserNotFound         = errors.New("chat: user not found")

	// Forbidden family
	ErrNotMember          = errors.New("chat: user is not a member of the conversation")
	ErrInsufficientRole   = errors.New("chat: requester role does not permit this operation")
	ErrCreatorImmutable   = errors.New("chat: the creator membership cannot be removed or demoted")
	ErrCreatorCannotLeave = errors.New("chat: the creator cannot leave their own group")
	ErrNotSender          = errors.New("chat: only the sender may delete a message")
	ErrOwnMessage         = errors.New("chat: sender cannot acknowledge their own message")

	// Invalid family
	ErrBlankName        = errors.New("chat: name must not be blank")
	ErrSelfConversation = errors.New("chat: cannot open a direct conversation with yourself")
	ErrEmptyMessage     = errors.New("chat: message must carry text content or a file reference")
	ErrAmbiguousPayload = errors.New("chat: message cannot carry both text content and a file reference")
	ErrInvalidFileType  = errors.New("chat: file type is not allowed for this message type")
	ErrFileTooLarge     = errors.New("chat: file exceeds the size limit for this message type")
	ErrNotGroup         = errors.New("chat: operation applies to group conversations only")

	// Conflict family
	ErrAlreadyMember = errors.New("chat: user is already a member of the conversation")
	ErrRoleUnchanged = errors.New("chat: target role does not match the expected pre-state")
)

var businessErrors = []error{
	ErrConversationNotFound, ErrMessageNotFound, ErrUserNotFound,
	ErrNotMember, ErrInsufficientRole, ErrCreatorImmutable, ErrCreatorCannotLeave,
	ErrNotSender, ErrOwnMessage,
	ErrBlankName, ErrSelfConversation, ErrEmptyMessage, ErrAmbiguousPayload,
	ErrInvalidFileType, ErrFileTooLarge, ErrNotGroup,
	ErrAlreadyMember, ErrRoleUnchanged,
}

// IsBusinessError reports whether err is an expected business outcome rather
// than an infrastructure failure.
func IsBusinessError(err error) bool {
	for _, e := range businessErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
