// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framebuffer validates render-target configurations before frames
// are timed.
//
// Check is a pure query: it inspects a Target description and reports
// whether it is complete or which of a closed set of reasons makes it
// incomplete. Completeness is never cached; callers re-check after every
// configuration change.
package framebuffer

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrIncomplete is wrapped by every error returned from Validate.
var ErrIncomplete = errors.New("framebuffer: incomplete")

// Status is the outcome of a completeness check.
type Status int

const (
	// StatusComplete means the target can be rendered into.
	StatusComplete Status = iota

	// StatusUndefined means there is no target bound at all.
	StatusUndefined

	// StatusUnsupported means the combination of attachments is valid on its
	// own but not supported (unrenderable format, mismatched sizes).
	StatusUnsupported

	// StatusIncompleteAttachment means an attachment exists but is unusable
	// (zero size or undefined format).
	StatusIncompleteAttachment

	// StatusMissingAttachment means the target has no attachments.
	StatusMissingAttachment

	// StatusMultisampleMismatch means attachments disagree on sample count.
	StatusMultisampleMismatch

	// StatusUnknown is any status that cannot be classified.
	StatusUnknown
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusUndefined:
		return "undefined"
	case StatusUnsupported:
		return "unsupported"
	case StatusIncompleteAttachment:
		return "incomplete attachment"
	case StatusMissingAttachment:
		return "missing attachment"
	case StatusMultisampleMismatch:
		return "multisample mismatch"
	default:
		return "unknown"
	}
}

// Complete reports whether s is StatusComplete.
func (s Status) Complete() bool { return s == StatusComplete }

// Attachment describes one image attached to a render target.
type Attachment struct {
	// Label is an optional debug label.
	Label string

	// Format is the pixel format of the attachment.
	Format gputypes.TextureFormat

	// Width and Height are the attachment size in pixels.
	Width  int
	Height int

	// SampleCount is the number of samples per pixel. Zero is treated as 1.
	SampleCount uint32
}

func (a Attachment) samples() uint32 {
	if a.SampleCount == 0 {
		return 1
	}
	return a.SampleCount
}

// Target describes the attachments of the currently bound render target.
// A nil *Target means no target is bound.
type Target struct {
	Label        string
	Color        []Attachment
	DepthStencil *Attachment

	// Resolve is the single-sample image the first color attachment is
	// resolved into. It is only valid when that attachment is multisampled,
	// and must match its format and size.
	Resolve *Attachment
}

// colorRenderable lists the formats accepted as color attachments.
var colorRenderable = map[gputypes.TextureFormat]bool{
	gputypes.TextureFormatRGBA8Unorm:     true,
	gputypes.TextureFormatRGBA8UnormSrgb: true,
	gputypes.TextureFormatBGRA8Unorm:     true,
	gputypes.TextureFormatBGRA8UnormSrgb: true,
	gputypes.TextureFormatRGB10A2Unorm:   true,
	gputypes.TextureFormatRGBA16Float:    true,
	gputypes.TextureFormatR8Unorm:        true,
}

// depthRenderable lists the formats accepted as depth/stencil attachments.
var depthRenderable = map[gputypes.TextureFormat]bool{
	gputypes.TextureFormatDepth24Plus:          true,
	gputypes.TextureFormatDepth24PlusStencil8:  true,
	gputypes.TextureFormatDepth32Float:         true,
	gputypes.TextureFormatDepth32FloatStencil8: true,
}

// Check classifies the completeness of t. It never mutates t.
func Check(t *Target) Status {
	if t == nil {
		return StatusUndefined
	}
	if len(t.Color) == 0 && t.DepthStencil == nil {
		return StatusMissingAttachment
	}

	all := make([]Attachment, 0, len(t.Color)+1)
	all = append(all, t.Color...)
	if t.DepthStencil != nil {
		all = append(all, *t.DepthStencil)
	}

	if t.Resolve != nil && len(t.Color) == 0 {
		return StatusMissingAttachment
	}

	for _, a := range all {
		if !usable(a) {
			return StatusIncompleteAttachment
		}
	}
	if t.Resolve != nil && !usable(*t.Resolve) {
		return StatusIncompleteAttachment
	}
	for _, a := range t.Color {
		if !colorRenderable[a.Format] {
			return StatusUnsupported
		}
	}
	if t.DepthStencil != nil && !depthRenderable[t.DepthStencil.Format] {
		return StatusUnsupported
	}

	first := all[0]
	for _, a := range all[1:] {
		if a.samples() != first.samples() {
			return StatusMultisampleMismatch
		}
	}
	for _, a := range all[1:] {
		if a.Width != first.Width || a.Height != first.Height {
			return StatusUnsupported
		}
	}
	if t.Resolve != nil {
		return checkResolve(t.Color[0], *t.Resolve)
	}
	return StatusComplete
}

func usable(a Attachment) bool {
	return a.Width > 0 && a.Height > 0 && a.Format != gputypes.TextureFormatUndefined
}

// checkResolve validates a resolve target against the color attachment it
// resolves.
func checkResolve(color, resolve Attachment) Status {
	if color.samples() == 1 || resolve.samples() != 1 {
		return StatusMultisampleMismatch
	}
	if resolve.Format != color.Format {
		return StatusUnsupported
	}
	if resolve.Width != color.Width || resolve.Height != color.Height {
		return StatusUnsupported
	}
	return StatusComplete
}

// CheckCompleteness reports whether t is complete. Incomplete targets are
// logged with their reason.
func CheckCompleteness(t *Target) bool {
	return Validate(t) == nil
}

// IncompleteError reports why a target failed validation.
type IncompleteError struct {
	Label  string
	Status Status
}

// Error implements the error interface.
func (e *IncompleteError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("framebuffer: incomplete: %s", e.Status)
	}
	return fmt.Sprintf("framebuffer: %q incomplete: %s", e.Label, e.Status)
}

// Unwrap returns ErrIncomplete.
func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// Validate returns nil for a complete target, otherwise an *IncompleteError
// carrying the reason.
func Validate(t *Target) error {
	status := Check(t)
	if status.Complete() {
		return nil
	}
	err := &IncompleteError{Status: status}
	if t != nil {
		err.Label = t.Label
	}
	slogger().Warn("framebuffer incomplete", "target", err.Label, "status", status.String())
	return err
}
