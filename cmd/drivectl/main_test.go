package main

import (
	"context"
	"strings"
	"testing"

	"drive/internal/client"
	models "drive/internal/domain/models/drive"
	"drive/internal/server/servertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*client.Client, *servertest.Server) {
	ts := servertest.New(t, "user-1")
	return client.New(client.Config{BaseURL: ts.URL, HTTPClient: ts.Client()}), ts
}

func TestParseRef(t *testing.T) {
	ref, err := parseRef("file:abc")
	require.NoError(t, err)
	assert.Equal(t, models.ItemRef{Kind: models.KindFile, ID: "abc"}, ref)

	for _, bad := range []string{"abc", "file:", "blob:abc"} {
		_, err := parseRef(bad)
		assert.Error(t, err, bad)
	}
	assert.Nil(t, target("root"))
	assert.Nil(t, target(""))
	assert.Equal(t, "x", *target("x"))
}

func TestTrashCommands(t *testing.T) {
	ctx := context.Background()
	c, ts := newTestClient(t)

	keep, err := c.UploadFile(ctx, client.UploadSource{Name: "keep.txt", Size: 4, Body: strings.NewReader("keep")}, nil, nil)
	require.NoError(t, err)
	gone, err := c.UploadFile(ctx, client.UploadSource{Name: "gone.txt", Size: 4, Body: strings.NewReader("gone")}, nil, nil)
	require.NoError(t, err)
	keepRef, goneRef := "file:"+keep.ID, "file:"+gone.ID

	// purge refuses live items
	err = cmdPurge(ctx, c, []string{keepRef})
	assert.True(t, client.IsKind(err, client.KindConflict))

	require.NoError(t, cmdDelete(ctx, c, []string{keepRef, goneRef}))
	trash, err := c.ListTrashFiles(ctx, models.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, trash.Files, 2)

	require.NoError(t, cmdRestore(ctx, c, []string{keepRef}))
	require.NoError(t, cmdPurge(ctx, c, []string{goneRef}))

	live, err := c.ListFiles(ctx, nil, models.ListOptions{})
	require.NoError(t, err)
	require.Len(t, live.Files, 1)
	assert.Equal(t, keep.ID, live.Files[0].ID)
	assert.Equal(t, 1, ts.Blobs.Len())

	// restoring an item that is not in the trash is a per-item failure
	assert.Error(t, cmdRestore(ctx, c, []string{keepRef}))
	assert.Error(t, cmdDelete(ctx, c, []string{"folder"}))
}
