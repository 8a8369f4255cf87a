package client

import (
	"context"
	"fmt"

	models "drive/internal/domain/models/drive"
)

// The *Item helpers dispatch on ItemRef.Kind so callers holding mixed
// selections do not need to branch.

func (c *Client) RenameItem(ctx context.Context, ref models.ItemRef, name string) error {
	switch ref.Kind {
	case models.KindFolder:
		_, err := c.RenameFolder(ctx, ref.ID, name)
		return err
	case models.KindFile:
		_, err := c.RenameFile(ctx, ref.ID, name)
		return err
	}
	return unknownKind(ref)
}

// MoveItem moves the item into targetID (nil for root).
func (c *Client) MoveItem(ctx context.Context, ref models.ItemRef, targetID *string) error {
	switch ref.Kind {
	case models.KindFolder:
		_, err := c.MoveFolder(ctx, ref.ID, targetID)
		return err
	case models.KindFile:
		_, err := c.MoveFile(ctx, ref.ID, targetID)
		return err
	}
	return unknownKind(ref)
}

func (c *Client) CopyItem(ctx context.Context, ref models.ItemRef, targetID *string, name string) error {
	switch ref.Kind {
	case models.KindFolder:
		_, err := c.CopyFolder(ctx, ref.ID, targetID, name)
		return err
	case models.KindFile:
		_, err := c.CopyFile(ctx, ref.ID, targetID, name)
		return err
	}
	return unknownKind(ref)
}

func (c *Client) ToggleStarItem(ctx context.Context, ref models.ItemRef) error {
	switch ref.Kind {
	case models.KindFolder:
		_, err := c.ToggleStarFolder(ctx, ref.ID)
		return err
	case models.KindFile:
		_, err := c.ToggleStarFile(ctx, ref.ID)
		return err
	}
	return unknownKind(ref)
}

func (c *Client) DeleteItem(ctx context.Context, ref models.ItemRef) error {
	switch ref.Kind {
	case models.KindFolder:
		return c.DeleteFolder(ctx, ref.ID)
	case models.KindFile:
		return c.DeleteFile(ctx, ref.ID)
	}
	return unknownKind(ref)
}

func (c *Client) RestoreItem(ctx context.Context, ref models.ItemRef) error {
	switch ref.Kind {
	case models.KindFolder:
		_, err := c.RestoreFolder(ctx, ref.ID)
		return err
	case models.KindFile:
		_, err := c.RestoreFile(ctx, ref.ID)
		return err
	}
	return unknownKind(ref)
}

func (c *Client) PermanentDeleteItem(ctx context.Context, ref models.ItemRef) error {
	switch ref.Kind {
	case models.KindFolder:
		return c.PermanentDeleteFolder(ctx, ref.ID)
	case models.KindFile:
		return c.PermanentDeleteFile(ctx, ref.ID)
	}
	return unknownKind(ref)
}

func unknownKind(ref models.ItemRef) error {
	return fmt.Errorf("item %s: unknown kind %q", ref.ID, ref.Kind)
}

// RestoreItems restores every ref concurrently and waits for all of them.
// Successful restores are not rolled back when others fail.
func (c *Client) RestoreItems(ctx context.Context, refs []models.ItemRef) BatchResult[models.ItemRef] {
	return runBatch(len(refs),
		func(i int) string { return refs[i].String() },
		func(i int) (models.ItemRef, error) {
			return refs[i], c.RestoreItem(ctx, refs[i])
		},
	)
}
