// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bytesio

import "github.com/pkg/errors"

// ErrOutOfRange is returned when a read would run past the end of the
// underlying buffer.
var ErrOutOfRange = errors.New("bytesio: read past end of buffer")

// ErrInvalidUID is returned when a UID string fails its CRC-16/CCITT check
// character.
var ErrInvalidUID = errors.New("bytesio: invalid UID checksum")
