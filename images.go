package bloglet

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxImageBytes is the intake cap for attachments. Oversized files
	// are rejected, never truncated.
	MaxImageBytes = 5 << 20

	maxImageWidth = 800
	jpegQuality   = 80
)

// decodeAttachment reads an image from src, downscales anything wider
// than maxImageWidth, and re-encodes it as an inline JPEG data URI. The
// declared size is checked before any bytes are read.
func decodeAttachment(name string, src io.Reader, size int64) (Image, error) {
	if size > MaxImageBytes {
		return Image{}, &TooLargeError{Name: name, Size: size, Max: MaxImageBytes}
	}

	img, _, err := image.Decode(io.LimitReader(src, MaxImageBytes))
	if err != nil {
		return Image{}, fmt.Errorf("decode image %q: %w", name, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		ID:   uuid.NewString(),
		Name: name,
		Data: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Size: int64(buf.Len()),
	}, nil
}

// MarkdownRef returns the markdown image syntax for inserting the
// attachment into the markdown buffer.
func (img Image) MarkdownRef() string {
	return "![" + img.Name + "](" + img.Data + ")"
}

// InlineHTML returns the <img> element for embedding the attachment into
// the visual buffer.
func (img Image) InlineHTML() string {
	return `<img alt="` + img.Name + `" src="` + img.Data + `"/>`
}
