package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/schollz/progressbar/v3"
)

// WriteBody writes data to path, showing a byte progress bar on stderr unless quiet. A path
// of - writes to stdout without a bar
func WriteBody(path string, data http.BinaryData, quiet bool) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	bar := progressbar.NewOptions64(int64(len(data)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetVisibility(!quiet),
	)
	if _, err := io.Copy(io.MultiWriter(f, bar), data.Reader()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
