// Command drivectl is a terminal client for the drive API.
//
// Usage:
//
//	drivectl [-url URL] [-token TOKEN] <command> [flags] [args]
//
// Items are addressed as folder:<id> or file:<id>; "root" names the drive root.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"drive/internal/capabilities"
	"drive/internal/client"
	"drive/internal/client/view"
	models "drive/internal/domain/models/drive"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgHiRed)
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
	dirColor  = color.New(color.FgBlue, color.Bold)
	dimColor  = color.New(color.Faint)
)

type command struct {
	usage string
	run   func(ctx context.Context, c *client.Client, args []string) error
}

var commands = map[string]command{
	"ls":       {"ls [-search s] [-page n] [-limit n] [folderId]", cmdList},
	"starred":  {"starred [-search s]", cmdStarred},
	"trash":    {"trash [-search s]", cmdTrash},
	"mkdir":    {"mkdir [-parent id] name", cmdMkdir},
	"upload":   {"upload [-folder id] file...", cmdUpload},
	"mv":       {"mv item target|root", cmdMove},
	"cp":       {"cp [-name n] item target|root", cmdCopy},
	"rename":   {"rename item name", cmdRename},
	"star":     {"star item", cmdStar},
	"rm":       {"rm item...", cmdDelete},
	"restore":  {"restore item...", cmdRestore},
	"purge":    {"purge item...", cmdPurge},
	"path":     {"path folderId", cmdBreadcrumb},
	"stats":    {"stats folderId", cmdStats},
	"download": {"download fileId", cmdDownload},
	"caps":     {"caps drive|starred|trash", cmdCaps},
}

func main() {
	baseURL := flag.String("url", envOr("DRIVE_URL", "http://localhost:8080"), "API base URL")
	token := flag.String("token", os.Getenv("DRIVE_TOKEN"), "Bearer token")
	verbose := flag.Bool("v", false, "Log API calls")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		errColor.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	c := client.New(client.Config{BaseURL: *baseURL, AuthToken: *token, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, c, flag.Args()[1:]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: drivectl [-url URL] [-token TOKEN] [-v] <command>")
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func printError(err error) {
	var apiErr *client.APIError
	var tErr *client.TransportError
	switch {
	case errors.Is(err, view.ErrNotPermitted):
		errColor.Fprintf(os.Stderr, "not available here: %v\n", err)
	case errors.As(err, &apiErr):
		errColor.Fprintf(os.Stderr, "error [%s]: %s\n", apiErr.Kind, apiErr.Detail)
	case errors.As(err, &tErr):
		errColor.Fprintf(os.Stderr, "server unreachable or failed: %v\n", tErr)
	default:
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseRef reads folder:<id> or file:<id>
func parseRef(s string) (models.ItemRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return models.ItemRef{}, fmt.Errorf("item %q must look like folder:<id> or file:<id>", s)
	}
	k, err := models.ParseItemKind(kind)
	if err != nil {
		return models.ItemRef{}, err
	}
	return models.ItemRef{Kind: k, ID: id}, nil
}

func parseRefs(args []string) ([]models.ItemRef, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one item is required")
	}
	refs := make([]models.ItemRef, len(args))
	for i, a := range args {
		ref, err := parseRef(a)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

// target reads a folder id where "root" and "" mean the drive root
func target(s string) *string {
	if s == "" || s == "root" {
		return nil
	}
	return &s
}

func listFlags(name string, args []string) (models.ListOptions, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	search := fs.String("search", "", "Filter by name")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 50, "Page size")
	if err := fs.Parse(args); err != nil {
		return models.ListOptions{}, nil, err
	}
	return models.ListOptions{Page: *page, Limit: *limit, Search: *search}, fs.Args(), nil
}

func printView(data *client.ViewData) {
	for _, item := range data.Items() {
		printItem(item)
	}
	if data.Folders != nil && data.Files != nil {
		dimColor.Printf("%d folders, %d files\n", data.Folders.Pagination.Total, data.Files.Pagination.Total)
	}
}

func printItem(item models.Item) {
	star := " "
	if item.IsStarred() {
		star = "*"
	}
	switch item.Kind {
	case models.KindFolder:
		name := item.Folder.Name + "/"
		if item.Folder.Path != "" {
			name = item.Folder.Path + "/"
		}
		fmt.Printf("%s ", star)
		dirColor.Printf("%-40s", name)
		dimColor.Printf(" folder:%s\n", item.ID())
	case models.KindFile:
		fmt.Printf("%s %-40s %10s ", star, item.File.Name, humanSize(item.File.Size))
		dimColor.Printf("file:%s\n", item.ID())
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func cmdList(ctx context.Context, c *client.Client, args []string) error {
	opts, rest, err := listFlags("ls", args)
	if err != nil {
		return err
	}
	var folderID *string
	if len(rest) > 0 {
		folderID = target(rest[0])
	}
	data, err := c.LoadFolderView(ctx, folderID, opts)
	if err != nil {
		return err
	}
	if len(data.Breadcrumb) > 0 {
		names := make([]string, len(data.Breadcrumb))
		for i, b := range data.Breadcrumb {
			names[i] = b.Name
		}
		dimColor.Println(strings.Join(names, " > "))
	}
	printView(data)
	return nil
}

func cmdStarred(ctx context.Context, c *client.Client, args []string) error {
	opts, _, err := listFlags("starred", args)
	if err != nil {
		return err
	}
	data, err := c.LoadStarredView(ctx, opts)
	if err != nil {
		return err
	}
	printView(data)
	return nil
}

func cmdTrash(ctx context.Context, c *client.Client, args []string) error {
	opts, _, err := listFlags("trash", args)
	if err != nil {
		return err
	}
	data, err := c.LoadTrashView(ctx, opts)
	if err != nil {
		return err
	}
	printView(data)
	return nil
}

func cmdMkdir(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("mkdir", flag.ContinueOnError)
	parent := fs.String("parent", "", "Parent folder id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("mkdir takes exactly one name")
	}
	name := fs.Arg(0)
	parentID := target(*parent)

	if c.CheckFolderNameExists(ctx, name, parentID) {
		warnColor.Printf("a folder named %q already exists here\n", name)
	}
	folder, err := c.CreateFolder(ctx, name, parentID)
	if err != nil {
		return err
	}
	okColor.Printf("created folder:%s\n", folder.ID)
	return nil
}

func cmdUpload(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	folder := fs.String("folder", "", "Destination folder id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("upload needs at least one file")
	}

	srcs := make([]client.UploadSource, 0, fs.NArg())
	for _, p := range fs.Args() {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}
		srcs = append(srcs, client.UploadSource{Name: filepath.Base(p), Size: info.Size(), Body: f})
	}

	result := c.UploadFiles(ctx, srcs, target(*folder), func(index, pct int) {
		if pct == 100 {
			okColor.Printf("  %s done\n", srcs[index].Name)
		}
	})
	for _, f := range result.Failed {
		errColor.Printf("  %s failed: %v\n", f.Name, f.Err)
	}
	fmt.Printf("%d uploaded, %d failed\n", result.SuccessCount(), result.FailureCount())
	if result.FailureCount() > 0 {
		return fmt.Errorf("%d uploads failed", result.FailureCount())
	}
	return nil
}

func cmdMove(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return errors.New("mv takes an item and a target")
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}
	if err := c.MoveItem(ctx, ref, target(args[1])); err != nil {
		return err
	}
	okColor.Printf("moved %s\n", ref)
	return nil
}

func cmdCopy(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("cp", flag.ContinueOnError)
	name := fs.String("name", "", "Name of the copy")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("cp takes an item and a target")
	}
	ref, err := parseRef(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := c.CopyItem(ctx, ref, target(fs.Arg(1)), *name); err != nil {
		return err
	}
	okColor.Printf("copied %s\n", ref)
	return nil
}

func cmdRename(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return errors.New("rename takes an item and a name")
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}
	if err := c.RenameItem(ctx, ref, args[1]); err != nil {
		return err
	}
	okColor.Printf("renamed %s\n", ref)
	return nil
}

func cmdStar(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("star takes one item")
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}
	if err := c.ToggleStarItem(ctx, ref); err != nil {
		return err
	}
	okColor.Printf("toggled star on %s\n", ref)
	return nil
}

// openView loads a view controller so its capability set gates the action
func openView(ctx context.Context, c *client.Client, v capabilities.View) (*view.Controller, error) {
	return view.New(ctx, c, v, slog.Default())
}

func cmdDelete(ctx context.Context, c *client.Client, args []string) error {
	refs, err := parseRefs(args)
	if err != nil {
		return err
	}
	ctrl, err := openView(ctx, c, capabilities.ViewDrive)
	if err != nil {
		return err
	}
	if err := ctrl.Delete(ctx, refs); err != nil {
		return err
	}
	okColor.Printf("trashed %d item(s)\n", len(refs))
	return nil
}

func cmdRestore(ctx context.Context, c *client.Client, args []string) error {
	refs, err := parseRefs(args)
	if err != nil {
		return err
	}
	ctrl, err := openView(ctx, c, capabilities.ViewTrash)
	if err != nil {
		return err
	}
	result, err := ctrl.Restore(ctx, refs)
	if err != nil {
		return err
	}
	for _, ref := range result.Succeeded {
		okColor.Printf("restored %s\n", ref)
	}
	for _, f := range result.Failed {
		errColor.Printf("%s: %v\n", f.Name, f.Err)
	}
	if result.FailureCount() > 0 {
		return fmt.Errorf("%d of %d restores failed", result.FailureCount(), len(refs))
	}
	return nil
}

func cmdPurge(ctx context.Context, c *client.Client, args []string) error {
	refs, err := parseRefs(args)
	if err != nil {
		return err
	}
	ctrl, err := openView(ctx, c, capabilities.ViewTrash)
	if err != nil {
		return err
	}
	if err := ctrl.PermanentDelete(ctx, refs); err != nil {
		return err
	}
	warnColor.Printf("erased %d item(s)\n", len(refs))
	return nil
}

func cmdBreadcrumb(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("path takes one folder id")
	}
	crumbs, err := c.GetBreadcrumb(ctx, args[0])
	if err != nil {
		return err
	}
	for i, b := range crumbs {
		fmt.Printf("%s%s\n", strings.Repeat("  ", i), b.Name)
	}
	return nil
}

func cmdStats(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("stats takes one folder id")
	}
	stats, err := c.GetFolderStats(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("items:   %d\nfolders: %d\nfiles:   %d\nsize:    %s\n",
		stats.TotalItems, stats.TotalFolders, stats.TotalFiles, humanSize(stats.TotalSize))
	return nil
}

func cmdDownload(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("download takes one file id")
	}
	link, err := c.GetDownloadLink(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(link.DownloadURL)
	return nil
}

func cmdCaps(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("caps takes one view name")
	}
	v, err := capabilities.ParseView(args[0])
	if err != nil {
		return err
	}
	caps, err := c.GetCapabilities(ctx, v)
	if err != nil {
		return err
	}
	actions := []capabilities.Action{
		capabilities.ActionDownload, capabilities.ActionMove, capabilities.ActionCopy,
		capabilities.ActionRename, capabilities.ActionStar, capabilities.ActionDelete,
		capabilities.ActionRestore, capabilities.ActionPermanentDelete,
	}
	for _, a := range actions {
		if caps.Allows(a) {
			okColor.Printf("  + %s\n", a)
		} else {
			dimColor.Printf("  - %s\n", a)
		}
	}
	return nil
}
