package ordering

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxUploadBytes is the largest document accepted by default (50 MiB).
const DefaultMaxUploadBytes int64 = 50 << 20

const (
	pdfMIME        = "application/pdf"
	sniffBytes     = 3072
	forbiddenChars = `<>:"/\|?*`
)

// UploadPolicy decides which documents may be attached to a draft.
type UploadPolicy struct {
	MaxBytes int64
}

// Check validates the upload and returns an equivalent upload whose body
// still yields the complete document. Every failure wraps ErrUpload.
func (p UploadPolicy) Check(u Upload) (Upload, error) {
	name := strings.TrimSpace(u.FileName)
	if name == "" {
		return u, fmt.Errorf("%w: file name is required", ErrUpload)
	}
	if strings.ContainsAny(name, forbiddenChars) {
		return u, fmt.Errorf("%w: file name contains invalid characters", ErrUpload)
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return u, fmt.Errorf("%w: only PDF files are accepted", ErrUpload)
	}

	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	if u.Size <= 0 {
		return u, fmt.Errorf("%w: file is empty", ErrUpload)
	}
	if u.Size > limit {
		return u, fmt.Errorf("%w: file exceeds %d MB limit", ErrUpload, limit>>20)
	}
	if u.Body == nil {
		return u, fmt.Errorf("%w: file content is missing", ErrUpload)
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(u.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return u, fmt.Errorf("%w: read file: %v", ErrUpload, err)
	}
	head = head[:n]

	if mt := mimetype.Detect(head); !mt.Is(pdfMIME) {
		return u, fmt.Errorf("%w: content is %s, not a PDF", ErrUpload, mt.String())
	}

	u.FileName = name
	u.Body = io.MultiReader(bytes.NewReader(head), u.Body)
	return u, nil
}
