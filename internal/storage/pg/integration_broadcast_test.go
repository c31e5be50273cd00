package pg

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBroadcast(t *testing.T) {
	alice := mustCreateUser(t, "alice")

	t.Run("signed", func(t *testing.T) {
		b, err := storage.CreateBroadcast(alice.Id, "hello world", false)
		require.NoError(t, err)
		require.NotNil(t, b.SenderId)
		assert.Equal(t, alice.Id, *b.SenderId)
		assert.False(t, b.IsAnonymous)
	})

	t.Run("anonymous stores no sender at all", func(t *testing.T) {
		b, err := storage.CreateBroadcast(alice.Id, "whisper", true)
		require.NoError(t, err)
		assert.Nil(t, b.SenderId)
		assert.True(t, b.IsAnonymous)

		var senderId uuid.NullUUID
		err = storage.db.QueryRow(`SELECT sender_id FROM broadcasts WHERE id = $1`, b.Id).Scan(&senderId)
		require.NoError(t, err)
		assert.False(t, senderId.Valid, "anonymous sender must not be recoverable from the row")
	})
}

func TestBroadcasts_ListAndViews(t *testing.T) {
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")

	b, err := storage.CreateBroadcast(alice.Id, "view me", false)
	require.NoError(t, err)

	require.NoError(t, storage.TrackBroadcastView(b.Id, bob.Id))
	require.NoError(t, storage.TrackBroadcastView(b.Id, bob.Id)) // once per user
	require.NoError(t, storage.TrackBroadcastView(b.Id, alice.Id))

	assertStatusCode(t, storage.TrackBroadcastView(uuid.New(), bob.Id), http.StatusNotFound)

	list, err := storage.Broadcasts(100)
	require.NoError(t, err)

	var got *domain.Broadcast
	for i := range list {
		if list[i].Id == b.Id {
			got = &list[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ViewCount)
	require.NotNil(t, got.SenderName)
	assert.Equal(t, alice.Username, *got.SenderName)
}

func TestBroadcastComments(t *testing.T) {
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")

	b, err := storage.CreateBroadcast(alice.Id, "discuss", false)
	require.NoError(t, err)

	root, err := storage.CreateComment(b.Id, bob.Id, nil, "first!")
	require.NoError(t, err)
	assert.Equal(t, bob.Username, root.Username)

	child, err := storage.CreateComment(b.Id, alice.Id, &root.Id, "replying")
	require.NoError(t, err)
	require.NotNil(t, child.ParentCommentId)
	assert.Equal(t, root.Id, *child.ParentCommentId)

	t.Run("missing broadcast", func(t *testing.T) {
		_, err := storage.CreateComment(uuid.New(), bob.Id, nil, "nope")
		assertStatusCode(t, err, http.StatusNotFound)
	})

	t.Run("parent from another broadcast", func(t *testing.T) {
		other, err := storage.CreateBroadcast(alice.Id, "other", false)
		require.NoError(t, err)
		_, err = storage.CreateComment(other.Id, bob.Id, &root.Id, "cross-post")
		assertStatusCode(t, err, http.StatusBadRequest)
	})

	t.Run("list with reactions", func(t *testing.T) {
		broadcastId, err := storage.UpsertCommentReaction(root.Id, alice.Id, "👀")
		require.NoError(t, err)
		assert.Equal(t, b.Id, broadcastId)

		comments, err := storage.BroadcastComments(b.Id)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, root.Id, comments[0].Id)
		assert.Equal(t, domain.ReactionCounts{"👀": 1}, comments[0].Reactions)
	})

	t.Run("delete own comment only", func(t *testing.T) {
		assertStatusCode(t, storage.SoftDeleteComment(child.Id, bob.Id), http.StatusForbidden)
		require.NoError(t, storage.SoftDeleteComment(child.Id, alice.Id))

		comments, err := storage.BroadcastComments(b.Id)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, root.Id, comments[0].Id)

		assertStatusCode(t, storage.SoftDeleteComment(child.Id, alice.Id), http.StatusNotFound)
	})
}
