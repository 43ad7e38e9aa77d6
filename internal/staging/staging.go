// Package staging turns a transportable base64 audio payload into a
// request-scoped handle over the decoded bytes, backed by a temporary file
// whose removal is guaranteed on every exit path.
package staging

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
)

var supportedFormats = map[string]struct{}{
	"wav":  {},
	"mp3":  {},
	"ogg":  {},
	"flac": {},
	"m4a":  {},
	"webm": {},
}

// Handle owns the decoded audio of one request. It must be released by the
// caller; release is idempotent and never escalates failures.
type Handle struct {
	path     string
	data     []byte
	format   string
	released bool
	logger   *zap.Logger
}

// Bytes returns the decoded audio payload.
func (h *Handle) Bytes() []byte { return h.data }

// Path returns the temporary file backing the handle.
func (h *Handle) Path() string { return h.path }

// Format returns the normalized format tag.
func (h *Handle) Format() string { return h.format }

// Release removes the temporary file. Failures are logged, never returned;
// downstream stages must not be disturbed by cleanup problems.
func (h *Handle) Release() {
	if h.released {
		return
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("failed to remove staged audio file",
			zap.String("path", h.path),
			zap.Error(err))
	}
}

// Stager materializes audio payloads into handles.
type Stager struct {
	dir    string // empty means the system temp dir
	logger *zap.Logger
}

func NewStager(logger *zap.Logger) *Stager {
	return &Stager{logger: logger}
}

// Stage validates and decodes a base64 audio payload. Invalid base64, an
// empty payload, or an unknown format tag fail with *entities.DecodeError.
func (s *Stager) Stage(payload, format string) (*Handle, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if _, ok := supportedFormats[format]; !ok {
		return nil, &entities.DecodeError{Reason: fmt.Sprintf("unsupported audio format %q", format)}
	}
	if payload == "" {
		return nil, &entities.DecodeError{Reason: "audio payload is empty"}
	}

	raw, err := base64.StdEncoding.Strict().DecodeString(payload)
	if err != nil {
		return nil, &entities.DecodeError{Reason: "invalid base64 audio payload", Err: err}
	}
	if len(raw) == 0 {
		return nil, &entities.DecodeError{Reason: "audio payload decodes to zero bytes"}
	}

	f, err := os.CreateTemp(s.dir, "escuta-audio-*."+format)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged audio file: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write staged audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to close staged audio file: %w", err)
	}

	return &Handle{path: f.Name(), data: raw, format: format, logger: s.logger}, nil
}
