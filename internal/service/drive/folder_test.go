package drive

import (
	"context"
	"strings"
	"testing"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Reports", false},
		{"trimmed", "  Reports  ", false},
		{"unicode", "Überprüfung", false},
		{"max length", strings.Repeat("a", 255), false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 256), true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"angle brackets", "<tmp>", true},
		{"colon", "a:b", true},
		{"quote", `a"b`, true},
		{"pipe", "a|b", true},
		{"question mark", "what?", true},
		{"asterisk", "*.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			folder, err := f.folders.CreateFolder(context.Background(), &driveSvc.CreateFolderRequest{
				OwnerID: owner,
				Name:    tt.input,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.input), folder.Name)
			assert.NotEmpty(t, folder.ID)
			assert.Nil(t, folder.ParentID)
		})
	}
}

func TestCreateFolder_Parent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	parent := f.mkdir(t, "Parent", nil)

	t.Run("duplicate sibling names are allowed", func(t *testing.T) {
		f.mkdir(t, "Same", parent)
		f.mkdir(t, "Same", parent)
	})

	t.Run("path includes ancestors", func(t *testing.T) {
		child := f.mkdir(t, "Child", parent)
		assert.Equal(t, "Parent/Child", child.Path)
	})

	t.Run("missing parent", func(t *testing.T) {
		missing := "00000000-0000-0000-0000-00000000dead"
		_, err := f.folders.CreateFolder(ctx, &driveSvc.CreateFolderRequest{OwnerID: owner, Name: "x", ParentID: &missing})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("parent owned by someone else", func(t *testing.T) {
		_, err := f.folders.CreateFolder(ctx, &driveSvc.CreateFolderRequest{OwnerID: other, Name: "x", ParentID: &parent.ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("deleted parent", func(t *testing.T) {
		trashed := f.mkdir(t, "Trashed", nil)
		require.NoError(t, f.folders.DeleteFolder(ctx, trashed.ID, owner))
		_, err := f.folders.CreateFolder(ctx, &driveSvc.CreateFolderRequest{OwnerID: owner, Name: "x", ParentID: &trashed.ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBreadcrumb(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reports := f.mkdir(t, "Reports", nil)
	year := f.mkdir(t, "2024", reports)

	crumbs, err := f.listing.GetBreadcrumb(ctx, year.ID, owner)
	require.NoError(t, err)
	require.Len(t, crumbs, 3)

	assert.Nil(t, crumbs[0].ID)
	assert.Equal(t, "My Drive", crumbs[0].Name)
	assert.Equal(t, "", crumbs[0].Path)

	require.NotNil(t, crumbs[1].ID)
	assert.Equal(t, reports.ID, *crumbs[1].ID)
	assert.Equal(t, "Reports", crumbs[1].Name)
	assert.Equal(t, "Reports", crumbs[1].Path)

	require.NotNil(t, crumbs[2].ID)
	assert.Equal(t, year.ID, *crumbs[2].ID)
	assert.Equal(t, "2024", crumbs[2].Name)
	assert.Equal(t, "Reports/2024", crumbs[2].Path)
}

func TestMoveFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("into itself or a descendant is cyclic", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		b := f.mkdir(t, "B", a)
		c := f.mkdir(t, "C", b)

		for _, target := range []*models.Folder{a, b, c} {
			_, err := f.folders.MoveFolder(ctx, &driveSvc.MoveRequest{OwnerID: owner, ID: a.ID, TargetID: &target.ID})
			require.Error(t, err, "target %s", target.Name)
			assert.ErrorIs(t, err, domain.ErrCyclicMove)

			var cyclic *domain.CyclicMoveError
			require.ErrorAs(t, err, &cyclic)
			assert.Equal(t, a.ID, cyclic.FolderID)
		}

		crumbs, err := f.listing.GetBreadcrumb(ctx, c.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, "A/B/C", crumbs[len(crumbs)-1].Path)
	})

	t.Run("into a non-descendant updates descendant breadcrumbs", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		b := f.mkdir(t, "B", a)
		c := f.mkdir(t, "C", b)
		x := f.mkdir(t, "X", nil)

		moved, err := f.folders.MoveFolder(ctx, &driveSvc.MoveRequest{OwnerID: owner, ID: b.ID, TargetID: &x.ID})
		require.NoError(t, err)
		require.NotNil(t, moved.ParentID)
		assert.Equal(t, x.ID, *moved.ParentID)
		assert.Equal(t, "X/B", moved.Path)

		crumbs, err := f.listing.GetBreadcrumb(ctx, c.ID, owner)
		require.NoError(t, err)
		names := make([]string, len(crumbs))
		for i, crumb := range crumbs {
			names[i] = crumb.Name
		}
		assert.Equal(t, []string{"My Drive", "X", "B", "C"}, names)
		assert.Equal(t, "X/B/C", crumbs[3].Path)
	})

	t.Run("to root", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		b := f.mkdir(t, "B", a)

		moved, err := f.folders.MoveFolder(ctx, &driveSvc.MoveRequest{OwnerID: owner, ID: b.ID})
		require.NoError(t, err)
		assert.Nil(t, moved.ParentID)
		assert.ElementsMatch(t, []string{"A", "B"}, f.rootFolderNames(t))
	})

	t.Run("into a deleted folder", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		bin := f.mkdir(t, "Bin", nil)
		require.NoError(t, f.folders.DeleteFolder(ctx, bin.ID, owner))

		_, err := f.folders.MoveFolder(ctx, &driveSvc.MoveRequest{OwnerID: owner, ID: a.ID, TargetID: &bin.ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("a deleted folder", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		require.NoError(t, f.folders.DeleteFolder(ctx, a.ID, owner))

		_, err := f.folders.MoveFolder(ctx, &driveSvc.MoveRequest{OwnerID: owner, ID: a.ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRenameFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.mkdir(t, "A", nil)
	b := f.mkdir(t, "B", a)

	renamed, err := f.folders.RenameFolder(ctx, &driveSvc.RenameRequest{OwnerID: owner, ID: b.ID, Name: " Beta "})
	require.NoError(t, err)
	assert.Equal(t, "Beta", renamed.Name)
	assert.Equal(t, "A/Beta", renamed.Path)
	assert.Equal(t, b.ID, renamed.ID)

	_, err = f.folders.RenameFolder(ctx, &driveSvc.RenameRequest{OwnerID: owner, ID: b.ID, Name: "bad/name"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.folders.RenameFolder(ctx, &driveSvc.RenameRequest{OwnerID: other, ID: b.ID, Name: "stolen"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCopyFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("copies the live subtree", func(t *testing.T) {
		f := newFixture(t)
		src := f.mkdir(t, "Src", nil)
		sub := f.mkdir(t, "Sub", src)
		gone := f.mkdir(t, "Gone", src)
		f.mkdir(t, "Hidden", gone)
		f.upload(t, "a.txt", "aaa", src)
		f.upload(t, "b.txt", "bbbb", sub)
		dropped := f.upload(t, "c.txt", "c", sub)
		f.upload(t, "d.txt", "d", gone)
		require.NoError(t, f.folders.DeleteFolder(ctx, gone.ID, owner))
		require.NoError(t, f.files.DeleteFile(ctx, dropped.ID, owner))

		before, err := f.listing.GetFolderStats(ctx, src.ID, owner)
		require.NoError(t, err)
		blobsBefore := f.blobs.Len()

		dest := f.mkdir(t, "Dest", nil)
		dup, err := f.folders.CopyFolder(ctx, &driveSvc.CopyRequest{OwnerID: owner, ID: src.ID, TargetID: &dest.ID})
		require.NoError(t, err)
		assert.NotEqual(t, src.ID, dup.ID)
		assert.Equal(t, "Src", dup.Name)
		assert.Equal(t, "Dest/Src", dup.Path)

		after, err := f.listing.GetFolderStats(ctx, dup.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, 1, after.TotalFolders)
		assert.Equal(t, 2, after.TotalFiles)
		assert.Equal(t, int64(7), after.TotalSize)
		assert.Equal(t, blobsBefore+2, f.blobs.Len())

		contents, err := f.folders.GetFolderContents(ctx, &dup.ID, owner)
		require.NoError(t, err)
		require.Len(t, contents.Folders, 1)
		assert.Equal(t, "Sub", contents.Folders[0].Name)
		assert.NotEqual(t, sub.ID, contents.Folders[0].ID)
		require.Len(t, contents.Files, 1)
		assert.Equal(t, "a.txt", contents.Files[0].Name)
	})

	t.Run("with a new name", func(t *testing.T) {
		f := newFixture(t)
		src := f.mkdir(t, "Src", nil)
		dup, err := f.folders.CopyFolder(ctx, &driveSvc.CopyRequest{OwnerID: owner, ID: src.ID, Name: "Copy of Src"})
		require.NoError(t, err)
		assert.Equal(t, "Copy of Src", dup.Name)
		assert.Nil(t, dup.ParentID)

		_, err = f.folders.CopyFolder(ctx, &driveSvc.CopyRequest{OwnerID: owner, ID: src.ID, Name: "bad*"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("into its own subtree is cyclic", func(t *testing.T) {
		f := newFixture(t)
		src := f.mkdir(t, "Src", nil)
		sub := f.mkdir(t, "Sub", src)

		_, err := f.folders.CopyFolder(ctx, &driveSvc.CopyRequest{OwnerID: owner, ID: src.ID, TargetID: &sub.ID})
		assert.ErrorIs(t, err, domain.ErrCyclicMove)
		_, err = f.folders.CopyFolder(ctx, &driveSvc.CopyRequest{OwnerID: owner, ID: src.ID, TargetID: &src.ID})
		assert.ErrorIs(t, err, domain.ErrCyclicMove)
		assert.Equal(t, []string{"Src"}, f.rootFolderNames(t))
	})
}

func TestDeleteFolder_HidesSubtree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	docs := f.mkdir(t, "Docs", nil)
	inner := f.mkdir(t, "Inner", docs)
	one := f.upload(t, "one.txt", "1", docs)
	f.upload(t, "two.txt", "22", docs)
	_, err := f.files.ToggleStarFile(ctx, one.ID, owner)
	require.NoError(t, err)
	_, err = f.folders.ToggleStarFolder(ctx, inner.ID, owner)
	require.NoError(t, err)

	require.NoError(t, f.folders.DeleteFolder(ctx, docs.ID, owner))

	assert.Empty(t, f.rootFolderNames(t))

	starredFolders, err := f.listing.ListStarredFolders(ctx, owner, models.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, starredFolders.Folders)
	starredFiles, err := f.listing.ListStarredFiles(ctx, owner, models.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, starredFiles.Files)

	_, err = f.listing.ListFiles(ctx, &docs.ID, owner, models.ListOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.listing.ListFolders(ctx, &inner.ID, owner, models.ListOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.files.GetFile(ctx, one.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.files.RenameFile(ctx, &driveSvc.RenameRequest{OwnerID: owner, ID: one.ID, Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	trashFolders, trashFiles := f.trash(t)
	require.Len(t, trashFolders, 1)
	assert.Equal(t, docs.ID, trashFolders[0].ID)
	assert.True(t, trashFolders[0].IsDeleted)
	assert.NotNil(t, trashFolders[0].DeletedAt)
	assert.Empty(t, trashFiles)

	err = f.folders.DeleteFolder(ctx, docs.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPermanentDeleteFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	docs := f.mkdir(t, "Docs", nil)
	one := f.upload(t, "one.txt", "1", docs)
	two := f.upload(t, "two.txt", "22", docs)
	keep := f.upload(t, "keep.txt", "k", nil)

	err := f.folders.PermanentDeleteFolder(ctx, docs.ID, owner)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, f.folders.DeleteFolder(ctx, docs.ID, owner))
	require.NoError(t, f.folders.PermanentDeleteFolder(ctx, docs.ID, owner))

	trashFolders, trashFiles := f.trash(t)
	assert.Empty(t, trashFolders)
	assert.Empty(t, trashFiles)

	_, err = f.folders.RestoreFolder(ctx, docs.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.files.RestoreFile(ctx, one.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.files.RestoreFile(ctx, two.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, f.blobs.Len())
	_, err = f.files.GetFile(ctx, keep.ID, owner)
	assert.NoError(t, err)
}

func TestRestoreFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("active folder conflicts", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		_, err := f.folders.RestoreFolder(ctx, a.ID, owner)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("restores in place with contents", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		b := f.mkdir(t, "B", a)
		f.upload(t, "x.txt", "x", b)
		require.NoError(t, f.folders.DeleteFolder(ctx, b.ID, owner))

		restored, err := f.folders.RestoreFolder(ctx, b.ID, owner)
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted)
		assert.Nil(t, restored.DeletedAt)
		require.NotNil(t, restored.ParentID)
		assert.Equal(t, a.ID, *restored.ParentID)
		assert.Equal(t, "A/B", restored.Path)

		files, err := f.listing.ListFiles(ctx, &b.ID, owner, models.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, files.Files, 1)
	})

	t.Run("detaches to root when an ancestor is still deleted", func(t *testing.T) {
		f := newFixture(t)
		a := f.mkdir(t, "A", nil)
		b := f.mkdir(t, "B", a)
		require.NoError(t, f.folders.DeleteFolder(ctx, b.ID, owner))
		require.NoError(t, f.folders.DeleteFolder(ctx, a.ID, owner))

		restored, err := f.folders.RestoreFolder(ctx, b.ID, owner)
		require.NoError(t, err)
		assert.Nil(t, restored.ParentID)
		assert.Equal(t, "B", restored.Path)
		assert.Equal(t, []string{"B"}, f.rootFolderNames(t))

		trashFolders, _ := f.trash(t)
		require.Len(t, trashFolders, 1)
		assert.Equal(t, a.ID, trashFolders[0].ID)
	})
}

func TestToggleStarFolder_Involutive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.mkdir(t, "A", nil)

	once, err := f.folders.ToggleStarFolder(ctx, a.ID, owner)
	require.NoError(t, err)
	assert.True(t, once.IsStarred)

	twice, err := f.folders.ToggleStarFolder(ctx, a.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, a.IsStarred, twice.IsStarred)
	assert.Equal(t, a.ID, twice.ID)
	assert.Equal(t, a.Name, twice.Name)
	assert.Equal(t, a.ParentID, twice.ParentID)
	assert.Equal(t, a.IsDeleted, twice.IsDeleted)
	assert.Equal(t, a.CreatedAt, twice.CreatedAt)
}

func TestFolderStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.mkdir(t, "Root", nil)
	a := f.mkdir(t, "A", root)
	b := f.mkdir(t, "B", a)
	trashed := f.mkdir(t, "Trashed", root)
	f.upload(t, "1.txt", "12345", root)
	f.upload(t, "2.txt", "123", a)
	f.upload(t, "3.txt", "12", b)
	f.upload(t, "4.txt", "1234567890", trashed)
	gone := f.upload(t, "5.txt", "1", b)
	require.NoError(t, f.folders.DeleteFolder(ctx, trashed.ID, owner))
	require.NoError(t, f.files.DeleteFile(ctx, gone.ID, owner))

	stats, err := f.listing.GetFolderStats(ctx, root.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.FolderStats{TotalItems: 5, TotalFolders: 2, TotalFiles: 3, TotalSize: 10}, *stats)

	_, err = f.listing.GetFolderStats(ctx, trashed.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetFolderContents_Root(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "B", nil)
	f.mkdir(t, "A", nil)
	f.upload(t, "z.txt", "z", nil)

	contents, err := f.folders.GetFolderContents(context.Background(), nil, owner)
	require.NoError(t, err)
	assert.Nil(t, contents.Folder)
	require.Len(t, contents.Folders, 2)
	assert.Equal(t, "A", contents.Folders[0].Name)
	assert.Equal(t, "B", contents.Folders[1].Name)
	assert.Len(t, contents.Files, 1)
}
