// Package fetch downloads a resolved media URL to local disk with terminal
// progress reporting.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Options controls a single download.
type Options struct {
	// Quiet suppresses the progress bar.
	Quiet bool

	// Timeout bounds the whole transfer; zero means no limit.
	Timeout time.Duration
}

// Download streams url into dest, creating parent directories as needed.
// The file is written to a .part path first and renamed on success so a
// killed download never leaves a truncated file under the final name.
func Download(ctx context.Context, url, dest string, opts Options) error {
	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}

	var reader io.Reader = resp.Body
	var bar *pb.ProgressBar
	if !opts.Quiet {
		bar = pb.Full.Start64(resp.ContentLength)
		bar.Set(pb.Bytes, true)
		reader = bar.NewProxyReader(resp.Body)
	}

	_, copyErr := io.Copy(out, reader)
	if bar != nil {
		bar.Finish()
	}
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(part)
		return fmt.Errorf("write %s: %w", dest, copyErr)
	}

	return os.Rename(part, dest)
}
