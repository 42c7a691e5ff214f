// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import "github.com/denpamusic/pyplumio/bytesio"

// FrameVersions maps a frame Type to the controller's 16-bit change
// counter for that type, §3/§4.3. It is embedded at the head of
// RegulatorData and SensorData payloads and drives the version-triggered
// re-fetch mechanism in the protocol driver.
type FrameVersions map[Type]uint16

func decodeFrameVersions(r *bytesio.Reader) (FrameVersions, error) {
	count, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	versions := make(FrameVersions, count)
	for i := 0; i < int(count); i++ {
		code, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		version, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		versions[Type(code)] = version
	}
	return versions, nil
}

func encodeFrameVersions(w *bytesio.Writer, versions FrameVersions) {
	w.WriteByte(byte(len(versions)))
	for t, v := range versions {
		w.WriteUint16(uint16(t))
		w.WriteUint16(v)
	}
}
