package checkin

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const dataURLMarker = "base64,"

// RawFile is a photo as handed over by the UI layer. Exactly one of Reader or
// DataURL is expected; DataURL holds a "data:<mime>;base64,<payload>" string.
type RawFile struct {
	Name    string
	Type    string
	Reader  io.Reader
	DataURL string
}

// OpenRawFile opens a photo on disk. The declared type comes from the file
// extension, as a browser file picker would report it. Close the returned
// closer once the file has been encoded.
func OpenRawFile(path string) (*RawFile, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open photo: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat photo: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, InvalidInput(fmt.Sprintf("%s is a directory", path))
	}
	name := filepath.Base(path)
	declared := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = strings.TrimSpace(declared[:idx])
	}
	return &RawFile{Name: name, Type: declared, Reader: f}, f, nil
}

// Encoder converts raw photos into EncodedPhoto values.
type Encoder struct{}

// Encode reads the full photo content and base64-encodes it. Name and declared
// type are kept unchanged; when no type was declared it is sniffed from the
// content.
func (Encoder) Encode(ctx context.Context, raw *RawFile) (EncodedPhoto, error) {
	if raw == nil || (raw.Reader == nil && raw.DataURL == "") {
		return EncodedPhoto{}, InvalidInput("no photo supplied")
	}
	if err := ctx.Err(); err != nil {
		return EncodedPhoto{}, err
	}

	if raw.DataURL != "" {
		payload, mimeType, err := splitDataURL(raw.DataURL)
		if err != nil {
			return EncodedPhoto{}, err
		}
		declared := raw.Type
		if declared == "" {
			declared = mimeType
		}
		return EncodedPhoto{FileName: raw.Name, MimeType: declared, Base64Data: payload}, nil
	}

	content, err := io.ReadAll(raw.Reader)
	if err != nil {
		return EncodedPhoto{}, fmt.Errorf("read photo %q: %w", raw.Name, err)
	}
	declared := raw.Type
	if declared == "" {
		declared = mimetype.Detect(content).String()
		if idx := strings.Index(declared, ";"); idx >= 0 {
			declared = declared[:idx]
		}
	}
	return EncodedPhoto{
		FileName:   raw.Name,
		MimeType:   declared,
		Base64Data: base64.StdEncoding.EncodeToString(content),
	}, nil
}

// DataURL renders the photo as a data URL.
func (p EncodedPhoto) DataURL() string {
	return "data:" + p.MimeType + ";" + dataURLMarker + p.Base64Data
}

// splitDataURL returns the payload found just past the first "base64," marker
// and the media type from the header, if any. Whitespace inside the payload,
// such as line wrapping, is dropped.
func splitDataURL(value string) (payload string, mimeType string, err error) {
	idx := strings.Index(value, dataURLMarker)
	if idx < 0 {
		return "", "", InvalidInput("photo data url is not base64 encoded")
	}
	header := value[:idx]
	payload = stripSpace(value[idx+len(dataURLMarker):])
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return "", "", InvalidInput(fmt.Sprintf("photo data url payload: %v", err))
	}
	if rest, ok := strings.CutPrefix(header, "data:"); ok {
		mimeType = strings.TrimSuffix(rest, ";")
		if semi := strings.Index(mimeType, ";"); semi >= 0 {
			mimeType = mimeType[:semi]
		}
	}
	return payload, mimeType, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, s)
}
