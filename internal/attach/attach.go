// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach manages the attachment staging area for the next message.
package attach

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/atelier-tui/internal/api"
)

// Default staging bounds.
const (
	// DefaultMaxFiles is the maximum number of files staged on one message.
	DefaultMaxFiles = 20

	// DefaultMaxTotalBytes is the maximum combined size of staged files.
	DefaultMaxTotalBytes = 100 << 20 // 100 MiB
)

// allowedExtensions is the closed set of file types the backend accepts.
// Extensions are matched case-insensitively, without the dot.
var allowedExtensions = map[string]bool{
	"md": true, "txt": true, "pdf": true, "docx": true, "json": true,
	"xls": true, "xlsx": true, "csv": true, "rtf": true, "zip": true,
	"png": true, "jpg": true, "jpeg": true, "bmp": true, "gif": true,
	"mpeg": true, "mp3": true, "mp4": true, "mov": true, "wav": true,
}

// imageExtensions identifies staged files that get a thumbnail preview.
var imageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "bmp": true, "gif": true,
}

// ErrIndexOutOfRange indicates an unstage position past the staged list.
var ErrIndexOutOfRange = errors.New("staged file index out of range")

// =============================================================================
// FILE KINDS
// =============================================================================

// Kind classifies a staged file for display purposes.
type Kind int

const (
	KindDocument Kind = iota
	KindImage
	KindAudio
	KindVideo
	KindArchive
)

// kindOf infers the display kind from a lowercase extension.
func kindOf(ext string) Kind {
	if imageExtensions[ext] {
		return KindImage
	}
	switch ext {
	case "mp3", "wav", "mpeg":
		return KindAudio
	case "mp4", "mov":
		return KindVideo
	case "zip":
		return KindArchive
	default:
		return KindDocument
	}
}

// =============================================================================
// STAGED FILES
// =============================================================================

// StagedFile is a file queued for the next message. Staging records
// metadata only; content is read from Path when the message is sent.
type StagedFile struct {
	Name string
	Path string
	Size int64
	Kind Kind
}

// IsImage reports whether the file gets an image preview.
func (f StagedFile) IsImage() bool {
	return f.Kind == KindImage
}

// Candidate is a file offered for staging. Size comes from the caller
// (usually the file picker) so staging itself performs no I/O.
type Candidate struct {
	Name string
	Path string
	Size int64
}

// Result summarizes one staging batch. RejectedCount covers only this
// batch; it resets on the next call.
type Result struct {
	StagedCount   int
	RejectedCount int
	RejectedNames []string
}

// Message returns a short summary of the batch for a toast, or an empty
// string when nothing was rejected.
func (r Result) Message() string {
	if r.RejectedCount == 0 {
		return ""
	}
	if r.RejectedCount == 1 {
		return fmt.Sprintf("1 file was not attached: %s", r.RejectedNames[0])
	}
	return fmt.Sprintf("%d files were not attached", r.RejectedCount)
}

// =============================================================================
// STAGING AREA
// =============================================================================

// Staging is the attachment staging area for the next message. It holds
// file metadata between a pick and a send; the pipeline drains it on a
// successful commit and leaves it intact on failure.
type Staging struct {
	files         []StagedFile
	maxFiles      int
	maxTotalBytes int64
}

// NewStaging creates a staging area with the default bounds.
func NewStaging() *Staging {
	return NewStagingWithLimits(DefaultMaxFiles, DefaultMaxTotalBytes)
}

// NewStagingWithLimits creates a staging area with explicit bounds.
func NewStagingWithLimits(maxFiles int, maxTotalBytes int64) *Staging {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if maxTotalBytes <= 0 {
		maxTotalBytes = DefaultMaxTotalBytes
	}
	return &Staging{
		maxFiles:      maxFiles,
		maxTotalBytes: maxTotalBytes,
	}
}

// Allowed reports whether a file name carries an accepted extension.
func Allowed(name string) bool {
	return allowedExtensions[extOf(name)]
}

// extOf returns the lowercase extension without the dot.
func extOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

// Stage adds a batch of candidates. Files with disallowed extensions, and
// files that would push the area past its count or size bounds, are
// rejected and counted; accepted files from the same batch still stage.
func (s *Staging) Stage(batch []Candidate) Result {
	var result Result
	total := s.TotalSize()

	for _, cand := range batch {
		ext := extOf(cand.Name)
		if !allowedExtensions[ext] {
			result.RejectedCount++
			result.RejectedNames = append(result.RejectedNames, cand.Name)
			continue
		}
		if len(s.files) >= s.maxFiles || total+cand.Size > s.maxTotalBytes {
			result.RejectedCount++
			result.RejectedNames = append(result.RejectedNames, cand.Name)
			continue
		}

		s.files = append(s.files, StagedFile{
			Name: cand.Name,
			Path: cand.Path,
			Size: cand.Size,
			Kind: kindOf(ext),
		})
		total += cand.Size
		result.StagedCount++
	}

	return result
}

// Unstage removes the staged file at the given position.
func (s *Staging) Unstage(index int) error {
	if index < 0 || index >= len(s.files) {
		return ErrIndexOutOfRange
	}
	s.files = append(s.files[:index], s.files[index+1:]...)
	return nil
}

// Clear removes all staged files.
func (s *Staging) Clear() {
	s.files = nil
}

// Files returns the staged files in staging order.
func (s *Staging) Files() []StagedFile {
	out := make([]StagedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Names returns the staged file names in staging order.
func (s *Staging) Names() []string {
	names := make([]string, len(s.files))
	for i, f := range s.files {
		names[i] = f.Name
	}
	return names
}

// Attachments converts the staged files into upload descriptors.
func (s *Staging) Attachments() []api.Attachment {
	atts := make([]api.Attachment, len(s.files))
	for i, f := range s.files {
		atts[i] = api.Attachment{Name: f.Name, Path: f.Path}
	}
	return atts
}

// Count returns the number of staged files.
func (s *Staging) Count() int {
	return len(s.files)
}

// IsEmpty reports whether nothing is staged.
func (s *Staging) IsEmpty() bool {
	return len(s.files) == 0
}

// TotalSize returns the combined size of all staged files in bytes.
func (s *Staging) TotalSize() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size
	}
	return total
}
