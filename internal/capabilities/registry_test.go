package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_EmbeddedViews(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	assert.Equal(t, []View{ViewDrive, ViewStarred, ViewTrash}, r.Views())

	tests := []struct {
		view    View
		allowed []Action
		denied  []Action
	}{
		{
			view:    ViewDrive,
			allowed: []Action{ActionDownload, ActionMove, ActionCopy, ActionRename, ActionStar, ActionDelete, ActionCreateFolder, ActionUpload},
			denied:  []Action{ActionRestore, ActionPermanentDelete},
		},
		{
			view:    ViewTrash,
			allowed: []Action{ActionRestore, ActionPermanentDelete, ActionCreateFolder},
			denied:  []Action{ActionDownload, ActionMove, ActionCopy, ActionRename, ActionStar, ActionDelete, ActionUpload},
		},
		{
			view:    ViewStarred,
			allowed: []Action{ActionDownload, ActionRename, ActionStar, ActionDelete, ActionCreateFolder},
			denied:  []Action{ActionMove, ActionCopy, ActionRestore, ActionPermanentDelete, ActionUpload},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			caps, err := r.Get(tt.view)
			require.NoError(t, err)
			for _, a := range tt.allowed {
				assert.True(t, caps.Allows(a), "%s should allow %s", tt.view, a)
			}
			for _, a := range tt.denied {
				assert.False(t, caps.Allows(a), "%s should deny %s", tt.view, a)
			}
		})
	}
}

func TestNewRegistryFromYAML_Errors(t *testing.T) {
	_, err := NewRegistryFromYAML([]byte("drive: {}\nstarred: {}\n"))
	assert.ErrorContains(t, err, "missing capabilities for view trash")

	_, err = NewRegistryFromYAML([]byte("drive: {}\nstarred: {}\ntrash: {}\nshared: {}\n"))
	assert.ErrorContains(t, err, "unknown view")

	_, err = NewRegistryFromYAML([]byte("drive: [not, a, map]"))
	assert.Error(t, err)
}

func TestParseView(t *testing.T) {
	v, err := ParseView("starred")
	require.NoError(t, err)
	assert.Equal(t, ViewStarred, v)

	_, err = ParseView("recent")
	assert.Error(t, err)

	var caps ViewCapabilities
	assert.False(t, caps.Allows(Action("unknown")))
}
