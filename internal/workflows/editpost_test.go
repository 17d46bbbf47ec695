package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wp-tg-publisher/internal/conversation"
	"wp-tg-publisher/internal/models"
)

func newEditEngine(t *testing.T, gw *fakeGateway) *conversation.Engine {
	t.Helper()
	wizard := NewPostEdit(gw, fakeTransformer{}, testLogger())
	engine := conversation.NewEngine(testLogger())
	engine.Register(wizard.Workflow())
	return engine
}

func enterEdit(t *testing.T, engine *conversation.Engine, postID int, r *fakeResponder) {
	t.Helper()
	initial := map[string]interface{}{KeyPostID: postID}
	require.NoError(t, engine.Enter(context.Background(), EditPostName, callbackUpd("edit_12", ""), initial, r))
}

func TestEditPostFullUpdate(t *testing.T) {
	gw := &fakeGateway{loadPost: &models.Post{ID: 12, Title: "Old title", Content: "<p>old</p>", Status: "draft"}}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}
	ctx := context.Background()

	enterEdit(t, engine, 12, r)
	require.Contains(t, r.last(), "Editing post #12")
	require.Contains(t, r.last(), "Current status: draft")

	require.NoError(t, engine.Dispatch(ctx, textUpd("New title"), r))
	require.Contains(t, r.last(), "New content")

	require.NoError(t, engine.Dispatch(ctx, textUpd("fresh body"), r))
	require.Contains(t, r.last(), "Choose new status")

	require.NoError(t, engine.Dispatch(ctx, textUpd("1"), r))
	require.Contains(t, r.last(), "Title: New title")
	require.Contains(t, r.last(), "Status: publish")
	require.Contains(t, r.last(), "Content changed: Yes")

	require.NoError(t, engine.Dispatch(ctx, textUpd("/confirm"), r))
	require.Contains(t, r.last(), "Post #12 updated successfully!")

	require.Len(t, gw.updates, 1)
	require.Equal(t, 12, gw.updates[0].postID)
	require.Equal(t, models.PostUpdate{
		Title:   "New title",
		Content: "<p>fresh body</p>",
		Status:  "publish",
	}, gw.updates[0].upd)
	require.False(t, engine.Active(testChatID))
}

func TestEditPostSkipsKeepOriginal(t *testing.T) {
	gw := &fakeGateway{loadPost: &models.Post{ID: 9, Title: "Keep me", Content: "<p>same</p>", Status: "pending"}}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}
	ctx := context.Background()

	enterEdit(t, engine, 9, r)
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))

	require.Contains(t, r.last(), "Title: Keep me")
	require.Contains(t, r.last(), "Status: pending")
	require.Contains(t, r.last(), "Content changed: No")

	require.NoError(t, engine.Dispatch(ctx, textUpd("/confirm"), r))
	require.Len(t, gw.updates, 1)
	require.Equal(t, models.PostUpdate{
		Title:   "Keep me",
		Content: "<p>same</p>",
		Status:  "pending",
	}, gw.updates[0].upd)
}

func TestEditPostInvalidStatusRetainsOriginal(t *testing.T) {
	gw := &fakeGateway{loadPost: &models.Post{ID: 5, Title: "T", Content: "<p>c</p>", Status: "draft"}}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}
	ctx := context.Background()

	enterEdit(t, engine, 5, r)
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("bogus"), r))

	require.Contains(t, r.last(), "Status: draft")
}

func TestEditPostStatusWords(t *testing.T) {
	gw := &fakeGateway{loadPost: &models.Post{ID: 5, Title: "T", Content: "<p>c</p>", Status: "publish"}}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}
	ctx := context.Background()

	enterEdit(t, engine, 5, r)
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("trash"), r))

	require.Contains(t, r.last(), "Status: trash")
}

func TestEditPostMissingIDLeavesImmediately(t *testing.T) {
	gw := &fakeGateway{}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}

	require.NoError(t, engine.Enter(context.Background(), EditPostName, textUpd(""), nil, r))
	require.Contains(t, r.last(), "No post ID provided")
	require.False(t, engine.Active(testChatID))
}

func TestEditPostLoadFailureLeaves(t *testing.T) {
	gw := &fakeGateway{loadErr: errors.New("404")}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}

	enterEdit(t, engine, 12, r)
	require.Contains(t, r.last(), "Error loading post")
	require.False(t, engine.Active(testChatID))
}

func TestEditPostCancelAtConfirm(t *testing.T) {
	gw := &fakeGateway{loadPost: &models.Post{ID: 12, Title: "T", Content: "<p>c</p>", Status: "draft"}}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}
	ctx := context.Background()

	enterEdit(t, engine, 12, r)
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("no thanks"), r))

	require.Contains(t, r.last(), "Update cancelled.")
	require.Empty(t, gw.updates)
	require.False(t, engine.Active(testChatID))
}

func TestEditPostUpdateFailure(t *testing.T) {
	gw := &fakeGateway{
		loadPost:  &models.Post{ID: 12, Title: "T", Content: "<p>c</p>", Status: "draft"},
		updateErr: errors.New("500"),
	}
	engine := newEditEngine(t, gw)
	r := &fakeResponder{}
	ctx := context.Background()

	enterEdit(t, engine, 12, r)
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/skip"), r))
	require.NoError(t, engine.Dispatch(ctx, textUpd("/confirm"), r))

	require.Contains(t, r.last(), "Error updating post")
	require.False(t, engine.Active(testChatID))
}
