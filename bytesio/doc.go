// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bytesio implements the primitive wire encodings shared by every
// ecoNET frame payload: fixed-width integers and floats, length-prefixed
// strings, packed-boolean bitfields, the UID base-5 encoding and its
// check character, BCD version triples, and unix timestamps.
//
// Reader and Writer are cursors: Reader walks forward over a fixed []byte
// and fails with ErrOutOfRange once it runs past the end, Writer appends to
// a growing buffer. Neither type is safe for concurrent use; callers decode
// or encode one frame payload at a time on a single goroutine, matching the
// "no suspension inside the codec" rule of the driver that owns them.
package bytesio
