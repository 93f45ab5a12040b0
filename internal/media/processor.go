package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/webp"
)

// Avatars are rendered as small squares, so uploads are center-cropped to a
// square and downscaled before they reach object storage.
const (
	DefaultMaxDimension = 512

	// Images above this pixel count are rejected outright rather than
	// handed to ffmpeg.
	maxSourcePixels = 64 * 1024 * 1024

	jpegQuality = 3
	pngLevel    = 4
	webpQuality = 85
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// FFMPEGProcessor turns arbitrary image uploads into square avatars by
// shelling out to ffmpeg. Decoding the header first (incl. webp) doubles as
// a validity check that rejects non-image payloads before any subprocess is
// spawned.
type FFMPEGProcessor struct {
	path         string
	maxDimension int
}

func NewFFMPEGProcessor(binaryPath string, maxDimension int) *FFMPEGProcessor {
	path := strings.TrimSpace(binaryPath)
	if path == "" {
		path = "ffmpeg"
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &FFMPEGProcessor{path: path, maxDimension: maxDimension}
}

func (p *FFMPEGProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	contentType := normalizeContentType(upload.ContentType, upload.FileName)

	width, height, err := decodeDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode dimensions: %w", err)
	}
	if width*height > maxSourcePixels {
		return nil, fmt.Errorf("media: image too large (%dx%d)", width, height)
	}

	targetMax := maxDimension
	if targetMax <= 0 {
		targetMax = p.maxDimension
	}

	// Already a small square, nothing to do.
	if width == height && width <= targetMax {
		return &Result{Bytes: data, ContentType: contentType, Resized: false}, nil
	}

	side := squareSide(width, height, targetMax)
	processed, err := p.cropAndScale(ctx, data, contentType, side)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: processed, ContentType: contentType, Resized: true}, nil
}

func decodeDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// squareSide picks the output edge length: the shorter source edge, capped
// at maxDim and never below 2 so ffmpeg's scalers stay happy.
func squareSide(width, height, maxDim int) int {
	side := width
	if height < width {
		side = height
	}
	if side > maxDim {
		side = maxDim
	}
	if side < 2 {
		side = 2
	}
	return side
}

// cropAndScale center-crops the image to a square and resizes it to
// side x side in a single ffmpeg pass, keeping the source format.
func (p *FFMPEGProcessor) cropAndScale(ctx context.Context, data []byte, contentType string, side int) ([]byte, error) {
	codec, codecArgs, err := encoderFor(contentType)
	if err != nil {
		return nil, err
	}

	filter := fmt.Sprintf("crop='min(iw,ih)':'min(iw,ih)',scale=%d:%d:flags=lanczos", side, side)
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vf", filter,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", codec,
	}
	args = append(args, codecArgs...)
	args = append(args, "pipe:1")

	cmd := exec.CommandContext(ctx, p.path, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("ffmpeg: %v: %s", err, msg)
		}
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	out := stdout.Bytes()
	if len(out) == 0 {
		return nil, fmt.Errorf("ffmpeg: produced empty output")
	}
	return out, nil
}

func encoderFor(contentType string) (string, []string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "mjpeg", []string{"-q:v", strconv.Itoa(jpegQuality)}, nil
	case "image/png":
		return "png", []string{"-compression_level", strconv.Itoa(pngLevel)}, nil
	case "image/webp":
		return "libwebp", []string{"-quality", strconv.Itoa(webpQuality)}, nil
	default:
		return "", nil, fmt.Errorf("media: unsupported content type %s", contentType)
	}
}

func normalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if ct != "" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return "image/jpeg"
}
