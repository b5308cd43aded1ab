package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/application/domain"
)

func TestCreateOneToOneIsIdempotent(t *testing.T) {
	users := newMemUserRepo()
	alice := users.add("alice")
	bob := users.add("bob")
	repo := newMemChatRepo(users)
	uc := NewCreateOneToOneUseCase(repo, users)
	ctx := context.Background()

	conv, existing, err := uc.Execute(ctx, CreateOneToOneInput{RequesterID: alice.ID, TargetUsername: "bob"})
	require.NoError(t, err)
	require.False(t, existing)
	require.Equal(t, chat.KindOneToOne, conv.Kind)

	// same pair again returns the same conversation
	again, existing, err := uc.Execute(ctx, CreateOneToOneInput{RequesterID: alice.ID, TargetUsername: "bob"})
	require.NoError(t, err)
	require.True(t, existing)
	require.Equal(t, conv.ID, again.ID)

	// the pair is unordered: bob asking for alice finds the same row
	flipped, existing, err := uc.Execute(ctx, CreateOneToOneInput{RequesterID: bob.ID, TargetUsername: "alice"})
	require.NoError(t, err)
	require.True(t, existing)
	require.Equal(t, conv.ID, flipped.ID)
}

func TestCreateOneToOneConcurrentRequestsConverge(t *testing.T) {
	users := newMemUserRepo()
	alice := users.add("alice")
	bob := users.add("bob")
	repo := newMemChatRepo(users)
	uc := NewCreateOneToOneUseCase(repo, users)
	ctx := context.Background()

	// both sides race to open the same pair from every direction
	type outcome struct {
		id  int64
		err error
	}
	results := make(chan outcome, 8)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			conv, _, err := uc.Execute(ctx, CreateOneToOneInput{RequesterID: alice.ID, TargetUsername: "bob"})
			results <- outcome{conv.ID, err}
		}()
		go func() {
			defer wg.Done()
			conv, _, err := uc.Execute(ctx, CreateOneToOneInput{RequesterID: bob.ID, TargetUsername: "alice"})
			results <- outcome{conv.ID, err}
		}()
	}
	wg.Wait()
	close(results)

	first := <-results
	require.NoError(t, first.err)
	for res := range results {
		require.NoError(t, res.err)
		require.Equal(t, first.id, res.id)
	}
	convs, err := repo.ListUserConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
}

func TestCreateOneToOneRejectsSelfAndUnknown(t *testing.T) {
	users := newMemUserRepo()
	alice := users.add("alice")
	repo := newMemChatRepo(users)
	uc := NewCreateOneToOneUseCase(repo, users)
	ctx := context.Background()

	_, _, err := uc.Execute(ctx, CreateOneToOneInput{RequesterID: alice.ID, TargetUsername: "alice"})
	require.ErrorIs(t, err, chat.ErrSelfConversation)

	_, _, err = uc.Execute(ctx, CreateOneToOneInput{RequesterID: alice.ID, TargetUsername: "ghost"})
	require.ErrorIs(t, err, chat.ErrUserNotFound)
}

func TestCreateGroupAssignsCreatorRole(t *testing.T) {
	users := newMemUserRepo()
	alice := users.add("alice")
	users.add("bob")
	users.add("carol")
	repo := newMemChatRepo(users)
	uc := NewCreateGroupUseCase(repo, users)
	ctx := context.Background()

	conv, err := uc.Execute(ctx, CreateGroupInput{
		CreatorID:       alice.ID,
		Name:            "book club",
		MemberUsernames: []string{"bob", "carol", "nobody"},
	})
	require.NoError(t, err)
	require.Equal(t, chat.KindGroup, conv.Kind)

	role, err := repo.RoleOf(ctx, conv.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, chat.RoleCreator, role)

	// unresolved names are skipped, not fatal
	members, err := repo.ListMembers(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)

	_, err = uc.Execute(ctx, CreateGroupInput{CreatorID: alice.ID, Name: "   "})
	require.ErrorIs(t, err, chat.ErrBlankName)
}

func TestMembershipLifecycle(t *testing.T) {
	users := newMemUserRepo()
	creator := users.add("creator")
	admin := users.add("admin")
	member := users.add("member")
	users.add("outsider")
	repo := newMemChatRepo(users)
	ctx := context.Background()

	conv, err := NewCreateGroupUseCase(repo, users).Execute(ctx, CreateGroupInput{
		CreatorID:       creator.ID,
		Name:            "ops",
		MemberUsernames: []string{"admin", "member"},
	})
	require.NoError(t, err)

	promote := NewPromoteToAdminUseCase(repo, users)
	demote := NewDemoteFromAdminUseCase(repo, users)
	remove := NewRemoveMemberUseCase(repo, users)
	add := NewAddMemberUseCase(repo, users)

	// only the creator promotes
	_, err = promote.Execute(ctx, PromoteToAdminInput{ConversationID: conv.ID, RequesterID: admin.ID, TargetUsername: "member"})
	require.ErrorIs(t, err, chat.ErrInsufficientRole)

	id, err := promote.Execute(ctx, PromoteToAdminInput{ConversationID: conv.ID, RequesterID: creator.ID, TargetUsername: "admin"})
	require.NoError(t, err)
	require.Equal(t, admin.ID, id)

	// promoting an admin again fails the compare-and-set
	_, err = promote.Execute(ctx, PromoteToAdminInput{ConversationID: conv.ID, RequesterID: creator.ID, TargetUsername: "admin"})
	require.ErrorIs(t, err, chat.ErrRoleUnchanged)

	// the creator can never be promoted, demoted or removed
	_, err = promote.Execute(ctx, PromoteToAdminInput{ConversationID: conv.ID, RequesterID: creator.ID, TargetUsername: "creator"})
	require.ErrorIs(t, err, chat.ErrRoleUnchanged)
	_, err = demote.Execute(ctx, DemoteFromAdminInput{ConversationID: conv.ID, RequesterID: creator.ID, TargetUsername: "creator"})
	require.ErrorIs(t, err, chat.ErrRoleUnchanged)
	_, err = remove.Execute(ctx, RemoveMemberInput{ConversationID: conv.ID, RequesterID: admin.ID, TargetUsername: "creator"})
	require.ErrorIs(t, err, chat.ErrCreatorImmutable)

	// admins cannot remove other admins
	_, err = promote.Execute(ctx, PromoteToAdminInput{ConversationID: conv.ID, RequesterID: creator.ID, TargetUsername: "member"})
	require.NoError(t, err)
	_, err = remove.Execute(ctx, RemoveMemberInput{ConversationID: conv.ID, RequesterID: admin.ID, TargetUsername: "member"})
	require.ErrorIs(t, err, chat.ErrInsufficientRole)

	// demote back, then the admin may remove the member
	_, err = demote.Execute(ctx, DemoteFromAdminInput{ConversationID: conv.ID, RequesterID: creator.ID, TargetUsername: "member"})
	require.NoError(t, err)
	removedID, err := remove.Execute(ctx, RemoveMemberInput{ConversationID: conv.ID, RequesterID: admin.ID, TargetUsername: "member"})
	require.NoError(t, err)
	require.Equal(t, member.ID, removedID)

	// members cannot add; admins can; duplicates conflict
	addedID, err := add.Execute(ctx, AddMemberInput{ConversationID: conv.ID, RequesterID: admin.ID, TargetUsername: "member"})
	require.NoError(t, err)
	require.Equal(t, member.ID, addedID)
	_, err = add.Execute(ctx, AddMemberInput{ConversationID: conv.ID, RequesterID: member.ID, TargetUsername: "outsider"})
	require.ErrorIs(t, err, chat.ErrInsufficientRole)
	_, err = add.Execute(ctx, AddMemberInput{ConversationID: conv.ID, RequesterID: admin.ID, TargetUsername: "member"})
	require.ErrorIs(t, err, chat.ErrAlreadyMember)
}

func TestLeaveGroup(t *testing.T) {
	users := newMemUserRepo()
	creator := users.add("creator")
	member := users.add("member")
	repo := newMemChatRepo(users)
	ctx := context.Background()

	conv, err := NewCreateGroupUseCase(repo, users).Execute(ctx, CreateGroupInput{
		CreatorID:       creator.ID,
		Name:            "ops",
		MemberUsernames: []string{"member"},
	})
	require.NoError(t, err)

	leave := NewLeaveGroupUseCase(repo)
	require.ErrorIs(t, leave.Execute(ctx, LeaveGroupInput{ConversationID: conv.ID, UserID: creator.ID}), chat.ErrCreatorCannotLeave)
	require.NoError(t, leave.Execute(ctx, LeaveGroupInput{ConversationID: conv.ID, UserID: member.ID}))

	ok, err := repo.IsMember(ctx, conv.ID, member.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteConversationSemantics(t *testing.T) {
	users := newMemUserRepo()
	creator := users.add("creator")
	member := users.add("member")
	repo := newMemChatRepo(users)
	ctx := context.Background()
	del := NewDeleteConversationUseCase(repo, nil)

	// group: creator-only, cascades
	group, err := NewCreateGroupUseCase(repo, users).Execute(ctx, CreateGroupInput{
		CreatorID:       creator.ID,
		Name:            "ops",
		MemberUsernames: []string{"member"},
	})
	require.NoError(t, err)

	_, err = del.Execute(ctx, DeleteConversationInput{ConversationID: group.ID, UserID: member.ID})
	require.ErrorIs(t, err, chat.ErrInsufficientRole)

	removed, err := del.Execute(ctx, DeleteConversationInput{ConversationID: group.ID, UserID: creator.ID})
	require.NoError(t, err)
	require.True(t, removed)
	_, err = repo.FindConversation(ctx, group.ID)
	require.ErrorIs(t, err, chat.ErrConversationNotFound)

	// one-to-one: only the caller's membership goes away
	direct, _, err := NewCreateOneToOneUseCase(repo, users).Execute(ctx, CreateOneToOneInput{RequesterID: creator.ID, TargetUsername: "member"})
	require.NoError(t, err)

	removed, err = del.Execute(ctx, DeleteConversationInput{ConversationID: direct.ID, UserID: creator.ID})
	require.NoError(t, err)
	require.False(t, removed)

	_, err = repo.FindConversation(ctx, direct.ID)
	require.NoError(t, err)
	stillThere, err := repo.IsMember(ctx, direct.ID, member.ID)
	require.NoError(t, err)
	require.True(t, stillThere)
	gone, err := repo.IsMember(ctx, direct.ID, creator.ID)
	require.NoError(t, err)
	require.False(t, gone)
}

func TestListConversationsBuildsSummaries(t *testing.T) {
	users := newMemUserRepo()
	alice := users.add("alice")
	bob := users.add("bob")
	repo := newMemChatRepo(users)
	ctx := context.Background()

	conv, _, err := NewCreateOneToOneUseCase(repo, users).Execute(ctx, CreateOneToOneInput{RequesterID: alice.ID, TargetUsername: "bob"})
	require.NoError(t, err)

	_, err = NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: bob.ID, Content: "hey"})
	require.NoError(t, err)
	last, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: bob.ID, Content: "there?"})
	require.NoError(t, err)

	summaries, err := NewListConversationsUseCase(repo).Execute(ctx, ListConversationsInput{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, conv.ID, summaries[0].Conversation.ID)
	require.Len(t, summaries[0].Members, 2)
	require.NotNil(t, summaries[0].LastMessage)
	require.Equal(t, last.ID, summaries[0].LastMessage.ID)
	require.Equal(t, 2, summaries[0].Unread)

	// the sender has nothing unread
	own, err := NewListConversationsUseCase(repo).Execute(ctx, ListConversationsInput{UserID: bob.ID})
	require.NoError(t, err)
	require.Equal(t, 0, own[0].Unread)
}
