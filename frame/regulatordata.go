// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"github.com/pkg/errors"

	"github.com/denpamusic/pyplumio/bytesio"
)

// DataType tags the wire representation of one RegulatorData schema
// entry, §4.3.
type DataType uint8

// Recognised DataType values.
const (
	DataTypeUint8 DataType = iota
	DataTypeUint16
	DataTypeUint32
	DataTypeInt8
	DataTypeInt16
	DataTypeInt32
	DataTypeFloat32
	DataTypeBitfield
)

func (t DataType) size() int {
	switch t {
	case DataTypeUint8, DataTypeInt8, DataTypeBitfield:
		return 1
	case DataTypeUint16, DataTypeInt16:
		return 2
	case DataTypeUint32, DataTypeInt32, DataTypeFloat32:
		return 4
	default:
		return 0
	}
}

func (t DataType) read(r *bytesio.Reader) (interface{}, error) {
	switch t {
	case DataTypeUint8:
		return r.ReadByte()
	case DataTypeInt8:
		return r.ReadInt8()
	case DataTypeUint16:
		return r.ReadUint16()
	case DataTypeInt16:
		return r.ReadInt16()
	case DataTypeUint32:
		return r.ReadUint32()
	case DataTypeInt32:
		return r.ReadInt32()
	case DataTypeFloat32:
		return r.ReadFloat32()
	case DataTypeBitfield:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		bits := make([]bool, 8)
		for i := 0; i < 8; i++ {
			bits[i] = b&(1<<uint(i)) != 0
		}
		return bits, nil
	default:
		return nil, errors.Errorf("frame: unknown regulator data type tag %d", t)
	}
}

// SchemaEntry is one (key, type) pair in a RegulatorDataSchema, in the
// order the controller will encode values.
type SchemaEntry struct {
	Key  uint16
	Type DataType
}

// RegulatorDataSchema is the ordered key/type catalogue fetched once via
// RegulatorDataSchemaRequest and then reused to decode every subsequent
// RegulatorDataMessage, §4.3.
type RegulatorDataSchema []SchemaEntry

// RegulatorDataSchemaRequest asks for the current schema.
type RegulatorDataSchemaRequest struct{}

func (*RegulatorDataSchemaRequest) FrameType() Type            { return TypeRegulatorDataSchema }
func (*RegulatorDataSchemaRequest) decode(r *bytesio.Reader) error { return nil }
func (*RegulatorDataSchemaRequest) encode(w *bytesio.Writer)       {}

// RegulatorDataSchemaResponse carries the schema, §4.3.
type RegulatorDataSchemaResponse struct {
	Schema RegulatorDataSchema
}

func (*RegulatorDataSchemaResponse) FrameType() Type {
	return ResponseType(TypeRegulatorDataSchema)
}

func (s *RegulatorDataSchemaResponse) decode(r *bytesio.Reader) error {
	count, err := r.ReadUint16()
	if err != nil {
		return err
	}
	s.Schema = make(RegulatorDataSchema, 0, count)
	for i := 0; i < int(count); i++ {
		key, err := r.ReadUint16()
		if err != nil {
			return err
		}
		tag, err := r.ReadByte()
		if err != nil {
			return err
		}
		s.Schema = append(s.Schema, SchemaEntry{Key: key, Type: DataType(tag)})
	}
	return nil
}

func (s *RegulatorDataSchemaResponse) encode(w *bytesio.Writer) {
	w.WriteUint16(uint16(len(s.Schema)))
	for _, e := range s.Schema {
		w.WriteUint16(e.Key)
		w.WriteByte(byte(e.Type))
	}
}

// RegulatorDataMessage is the schema-driven broadcast telemetry payload,
// §4.3. Its Raw bytes can only be decoded into named values once the
// matching RegulatorDataSchema is known, so frame-level decode only peels
// off the leading FrameVersions and retains the rest; DecodeRegulatorData
// does the schema-driven walk once the caller has a schema in hand.
type RegulatorDataMessage struct {
	Versions FrameVersions
	Raw      []byte
}

func (*RegulatorDataMessage) FrameType() Type { return TypeRegulatorData }

func (m *RegulatorDataMessage) decode(r *bytesio.Reader) error {
	versions, err := decodeFrameVersions(r)
	if err != nil {
		return err
	}
	m.Versions = versions
	m.Raw = append([]byte(nil), r.Remaining()...)
	return nil
}

func (m *RegulatorDataMessage) encode(w *bytesio.Writer) {
	encodeFrameVersions(w, m.Versions)
	w.WriteBytes(m.Raw)
}

// DecodeRegulatorData walks schema over raw, extracting one value per
// schema entry in order.
func DecodeRegulatorData(schema RegulatorDataSchema, raw []byte) (map[uint16]interface{}, error) {
	r := bytesio.NewReader(raw)
	values := make(map[uint16]interface{}, len(schema))
	for _, entry := range schema {
		v, err := entry.Type.read(r)
		if err != nil {
			return nil, errors.Wrapf(err, "regulator data key %d", entry.Key)
		}
		values[entry.Key] = v
	}
	return values, nil
}
