package view

import (
	"slices"

	"drive/internal/capabilities"
	models "drive/internal/domain/models/drive"
)

// Menu is an open context menu anchored on one item.
type Menu struct {
	Target models.ItemRef
}

// State is an immutable snapshot of one view. Transitions return a new
// State and never modify the receiver's slices.
type State struct {
	View       capabilities.View
	Folder     *string // current folder in the drive view; nil is root
	Page       int
	Limit      int
	Search     string
	Selection  []models.ItemRef
	Menu       *Menu
	Items      []models.Item
	Breadcrumb []models.BreadcrumbEntry
	FolderPage models.Page
	FilePage   models.Page
	Err        error
}

// NewState is the initial state of a view
func NewState(view capabilities.View, limit int) State {
	return State{View: view, Page: 1, Limit: limit}
}

// Navigate opens folderID (nil for root), resetting paging, selection and menu.
func (s State) Navigate(folderID *string) State {
	next := s
	if folderID != nil {
		id := *folderID
		next.Folder = &id
	} else {
		next.Folder = nil
	}
	next.Page = 1
	next.Selection = nil
	next.Menu = nil
	return next
}

// SetSearch changes the filter and returns to the first page.
func (s State) SetSearch(search string) State {
	next := s
	next.Search = search
	next.Page = 1
	next.Selection = nil
	next.Menu = nil
	return next
}

// SetPage moves to page n (minimum 1).
func (s State) SetPage(n int) State {
	next := s
	next.Page = max(n, 1)
	next.Selection = nil
	next.Menu = nil
	return next
}

// Select replaces the selection with ref.
func (s State) Select(ref models.ItemRef) State {
	next := s
	next.Selection = []models.ItemRef{ref}
	return next
}

// ToggleSelect adds ref to the selection, or removes it when present.
func (s State) ToggleSelect(ref models.ItemRef) State {
	next := s
	if i := slices.Index(s.Selection, ref); i >= 0 {
		next.Selection = slices.Delete(slices.Clone(s.Selection), i, i+1)
	} else {
		next.Selection = append(slices.Clone(s.Selection), ref)
	}
	return next
}

func (s State) ClearSelection() State {
	next := s
	next.Selection = nil
	return next
}

func (s State) IsSelected(ref models.ItemRef) bool {
	return slices.Contains(s.Selection, ref)
}

// OpenMenu opens the context menu on ref. An unselected target becomes
// the only selected item.
func (s State) OpenMenu(ref models.ItemRef) State {
	next := s
	next.Menu = &Menu{Target: ref}
	if !s.IsSelected(ref) {
		next.Selection = []models.ItemRef{ref}
	}
	return next
}

func (s State) CloseMenu() State {
	next := s
	next.Menu = nil
	return next
}

// withData applies a successful load. Selected items that vanished are dropped.
func (s State) withData(items []models.Item, crumbs []models.BreadcrumbEntry, folderPage, filePage models.Page) State {
	next := s
	next.Items = items
	next.Breadcrumb = crumbs
	next.FolderPage = folderPage
	next.FilePage = filePage
	next.Err = nil

	present := make(map[models.ItemRef]bool, len(items))
	for _, item := range items {
		present[item.Ref()] = true
	}
	next.Selection = nil
	for _, ref := range s.Selection {
		if present[ref] {
			next.Selection = append(next.Selection, ref)
		}
	}
	if s.Menu != nil && !present[s.Menu.Target] {
		next.Menu = nil
	}
	return next
}

// withError records a failed load. The view shows nothing rather than stale items.
func (s State) withError(err error) State {
	next := s
	next.Items = nil
	next.Breadcrumb = nil
	next.Selection = nil
	next.Menu = nil
	next.Err = err
	return next
}
