package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// WkhtmlRenderer renders HTML to PNG by shelling out to wkhtmltoimage,
// reading the document from stdin and writing the image to stdout.
type WkhtmlRenderer struct {
	binPath string
	width   int
}

func NewWkhtmlRenderer(binPath string, width int) *WkhtmlRenderer {
	if binPath == "" {
		binPath = "wkhtmltoimage"
	}
	if width <= 0 {
		width = 600
	}
	return &WkhtmlRenderer{binPath: binPath, width: width}
}

func (r *WkhtmlRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	args := []string{
		"--format", "png",
		"--width", strconv.Itoa(r.width),
		"--enable-local-file-access",
		"--load-error-handling", "ignore",
		"--quiet",
		"-", "-",
	}

	cmd := exec.CommandContext(ctx, r.binPath, args...)
	cmd.Stdin = strings.NewReader(html)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("wkhtmltoimage failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("wkhtmltoimage produced no output")
	}

	return stdout.Bytes(), nil
}
