package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// TesseractOCR extracts text from remotely hosted images by downloading
// them (or rendering them in headless Chrome when the URL serves a page
// rather than an image) and running the tesseract CLI over the result.
type TesseractOCR struct {
	Client *http.Client
	// TesseractPath overrides the binary name, mainly for tests.
	TesseractPath string
}

// NewTesseractOCR builds the collaborator with a bounded HTTP client.
func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{Client: &http.Client{Timeout: DefaultTimeout}}
}

// ExtractText implements ImageTextExtractor.
func (t *TesseractOCR) ExtractText(ctx context.Context, imageURL string) (string, error) {
	dir, err := os.MkdirTemp("", "phishguard-ocr")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	file, err := t.fetch(ctx, imageURL, dir)
	if err != nil {
		return "", err
	}
	return t.runTesseract(ctx, file)
}

// fetch downloads the URL; if the server answers with HTML instead of image
// bytes (shortener interstitials do this), it falls back to screenshotting
// the page in headless Chrome.
func (t *TesseractOCR) fetch(ctx context.Context, imageURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", imageURL, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "text/html") {
		return t.screenshot(ctx, imageURL, dir)
	}

	file := filepath.Join(dir, "image.bin")
	out, err := os.Create(file)
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(out, io.LimitReader(resp.Body, 8<<20))
	closeErr := out.Close()
	if copyErr != nil {
		return "", copyErr
	}
	if closeErr != nil {
		return "", closeErr
	}
	return file, nil
}

// screenshot renders the URL in headless Chrome and writes a PNG capture.
func (t *TesseractOCR) screenshot(ctx context.Context, pageURL, dir string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("incognito", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	cctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	cctx, cancel = context.WithTimeout(cctx, 30*time.Second)
	defer cancel()

	var buf []byte
	err := chromedp.Run(cctx,
		emulation.SetDeviceMetricsOverride(1280, 1024, 1, false),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return "", err
	}
	file := filepath.Join(dir, "page.png")
	if err := os.WriteFile(file, buf, 0o644); err != nil {
		return "", err
	}
	return file, nil
}

// runTesseract shells out to tesseract in stdout mode and strips its
// resolution-estimate noise lines from the output.
func (t *TesseractOCR) runTesseract(ctx context.Context, file string) (string, error) {
	bin := t.TesseractPath
	if bin == "" {
		bin = "tesseract"
	}
	out, err := exec.CommandContext(ctx, bin, file, "stdout").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	var kept []string
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "Estimating resolution as") {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), nil
}
