// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/denpamusic/pyplumio/bytesio"
)

func TestRegulatorDataSchemaRoundTrip(t *testing.T) {
	f := &Frame{
		Recipient: AddressBroadcast,
		Sender:    AddressEcoMAX,
		Payload: &RegulatorDataSchemaResponse{
			Schema: RegulatorDataSchema{
				{Key: 1, Type: DataTypeUint8},
				{Key: 2, Type: DataTypeFloat32},
			},
		},
	}
	got := roundTrip(t, f)
	resp, ok := got.Payload.(*RegulatorDataSchemaResponse)
	if !ok {
		t.Fatalf("got payload type %T", got.Payload)
	}
	if len(resp.Schema) != 2 || resp.Schema[1].Type != DataTypeFloat32 {
		t.Fatalf("got %+v", resp.Schema)
	}
}

func TestRegulatorDataMessageRetainsRawUntilSchemaApplied(t *testing.T) {
	w := bytesio.NewWriter()
	w.WriteByte(1)
	w.WriteFloat32(42.5)
	raw := w.Bytes()

	f := &Frame{
		Recipient: AddressBroadcast,
		Sender:    AddressEcoMAX,
		Payload:   &RegulatorDataMessage{Versions: FrameVersions{TypeSensorData: 3}, Raw: raw},
	}
	got := roundTrip(t, f)
	msg, ok := got.Payload.(*RegulatorDataMessage)
	if !ok {
		t.Fatalf("got payload type %T", got.Payload)
	}
	if msg.Versions[TypeSensorData] != 3 {
		t.Fatalf("got versions %+v", msg.Versions)
	}

	schema := RegulatorDataSchema{
		{Key: 10, Type: DataTypeUint8},
		{Key: 11, Type: DataTypeFloat32},
	}
	values, err := DecodeRegulatorData(schema, msg.Raw)
	if err != nil {
		t.Fatal(err)
	}
	if values[10].(uint8) != 1 {
		t.Fatalf("got key 10 = %v", values[10])
	}
	if values[11].(float32) != 42.5 {
		t.Fatalf("got key 11 = %v", values[11])
	}
}

func TestDecodeRegulatorDataBitfield(t *testing.T) {
	w := bytesio.NewWriter()
	w.WriteByte(0b00000101)
	schema := RegulatorDataSchema{{Key: 1, Type: DataTypeBitfield}}
	values, err := DecodeRegulatorData(schema, w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	bits := values[1].([]bool)
	if !bits[0] || bits[1] || !bits[2] {
		t.Fatalf("got bits %v", bits)
	}
}
