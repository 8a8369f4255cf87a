package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"

	models "drive/internal/domain/models/drive"
)

// UploadSource is one file to upload. Size must be the exact byte count of Body.
type UploadSource struct {
	Name     string
	Size     int64
	MimeType string
	Body     io.Reader
}

// ProgressFunc receives an integer percentage. Calls are monotonic
// non-decreasing and the last call on success is 100.
type ProgressFunc func(pct int)

// UploadFile streams src as multipart/form-data into folderID (nil for root).
func (c *Client) UploadFile(ctx context.Context, src UploadSource, folderID *string, onProgress ProgressFunc) (*models.File, error) {
	progress := newProgress(src.Size, onProgress)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadBody(mw, src, folderID, progress))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var file models.File
	if err := c.send(req, "POST /files/upload", &file); err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}

	progress.done()
	return &file, nil
}

func writeUploadBody(mw *multipart.Writer, src UploadSource, folderID *string, progress *progressReporter) error {
	if folderID != nil && *folderID != "" {
		if err := mw.WriteField("folderId", *folderID); err != nil {
			return err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(src.Name)))
	contentType := src.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, &countingReader{r: src.Body, onRead: progress.add}); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

type countingReader struct {
	r      io.Reader
	onRead func(n int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.onRead(n)
	}
	return n, err
}

// progressReporter converts byte counts into a monotonic percentage.
// Body bytes top out at 99; 100 is reserved for the server's acceptance.
type progressReporter struct {
	mu    sync.Mutex
	total int64
	sent  int64
	last  int
	fn    ProgressFunc
}

func newProgress(total int64, fn ProgressFunc) *progressReporter {
	return &progressReporter{total: total, last: -1, fn: fn}
}

func (p *progressReporter) add(n int) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent += int64(n)
	pct := int(p.sent * 100 / p.total)
	if pct > 99 {
		pct = 99
	}
	p.emit(pct)
}

func (p *progressReporter) done() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emit(100)
}

func (p *progressReporter) emit(pct int) {
	if pct <= p.last {
		return
	}
	p.last = pct
	p.fn(pct)
}

// BatchFailure records why one item of a batch failed.
type BatchFailure struct {
	Index int
	Name  string
	Err   error
}

func (f BatchFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

// BatchResult collects the outcome of independent concurrent operations.
// Both slices are ordered by input index.
type BatchResult[T any] struct {
	Succeeded []T
	Failed    []BatchFailure
}

func (b BatchResult[T]) SuccessCount() int { return len(b.Succeeded) }
func (b BatchResult[T]) FailureCount() int { return len(b.Failed) }

// runBatch runs op for every index concurrently and waits for all of them.
// A failure never cancels its siblings.
func runBatch[T any](n int, name func(i int) string, op func(i int) (T, error)) BatchResult[T] {
	values := make([]T, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Go(func() {
			values[i], errs[i] = op(i)
		})
	}
	wg.Wait()

	var result BatchResult[T]
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			result.Failed = append(result.Failed, BatchFailure{Index: i, Name: name(i), Err: errs[i]})
			continue
		}
		result.Succeeded = append(result.Succeeded, values[i])
	}
	return result
}

// UploadFiles uploads every source concurrently into folderID.
// onProgress receives the source index with each percentage update.
func (c *Client) UploadFiles(ctx context.Context, srcs []UploadSource, folderID *string, onProgress func(index, pct int)) BatchResult[*models.File] {
	result := runBatch(len(srcs),
		func(i int) string { return srcs[i].Name },
		func(i int) (*models.File, error) {
			var fn ProgressFunc
			if onProgress != nil {
				fn = func(pct int) { onProgress(i, pct) }
			}
			return c.UploadFile(ctx, srcs[i], folderID, fn)
		},
	)

	c.logger.Info("batch upload finished",
		"succeeded", result.SuccessCount(),
		"failed", result.FailureCount(),
	)
	return result
}
