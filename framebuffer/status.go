// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

// Numeric framebuffer status codes as reported by GL-family drivers.
const (
	CodeComplete                    uint32 = 0x8CD5
	CodeUndefined                   uint32 = 0x8219
	CodeUnsupported                 uint32 = 0x8CDD
	CodeIncompleteAttachment        uint32 = 0x8CD6
	CodeIncompleteMissingAttachment uint32 = 0x8CD7
	CodeIncompleteMultisample       uint32 = 0x8D56
)

// StatusFromCode maps a driver status code to a Status. Codes outside the
// known set map to StatusUnknown.
func StatusFromCode(code uint32) Status {
	switch code {
	case CodeComplete:
		return StatusComplete
	case CodeUndefined:
		return StatusUndefined
	case CodeUnsupported:
		return StatusUnsupported
	case CodeIncompleteAttachment:
		return StatusIncompleteAttachment
	case CodeIncompleteMissingAttachment:
		return StatusMissingAttachment
	case CodeIncompleteMultisample:
		return StatusMultisampleMismatch
	default:
		return StatusUnknown
	}
}
