package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func sampleBuffers() *Buffers {
	return &Buffers{
		Positions:       [][3]float32{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 0.7}},
		UVs:             [][2]float32{{0, 0}, {1, 0}, {0, 1}, {0.5, 0.5}},
		Indices:         []uint32{3, 0, 1, 3, 1, 2},
		PerFaceMaterial: []int32{0, 0, 0, 7},
		Scale:           2.5,
	}
}

func TestMeshBinaryEncoding(t *testing.T) {
	original := sampleBuffers()

	data, err := EncodeBytes(original)
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Encoded data is empty")
	}

	decoded, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}

	if len(decoded.Positions) != len(original.Positions) {
		t.Errorf("Positions length mismatch: got %d, want %d", len(decoded.Positions), len(original.Positions))
	}
	if len(decoded.Indices) != len(original.Indices) {
		t.Errorf("Indices length mismatch: got %d, want %d", len(decoded.Indices), len(original.Indices))
	}
	if decoded.Scale != original.Scale {
		t.Errorf("Scale mismatch: got %f, want %f", decoded.Scale, original.Scale)
	}
	if decoded.Fingerprint() != original.Fingerprint() {
		t.Error("Decoded mesh fingerprint differs from original")
	}
}

func TestEmptyMeshEncoding(t *testing.T) {
	data, err := EncodeBytes(&Buffers{})
	if err != nil {
		t.Fatalf("EncodeBytes failed: %v", err)
	}
	decoded, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	if decoded.VertexCount() != 0 || decoded.TriangleCount() != 0 {
		t.Errorf("Expected empty mesh, got %d vertices and %d triangles", decoded.VertexCount(), decoded.TriangleCount())
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_ = binary.Write(gz, binary.LittleEndian, uint32(0xdeadbeef))
	_ = gz.Close()

	if _, err := DecodeBytes(buf.Bytes()); err == nil {
		t.Error("Expected error for invalid magic")
	}
}

func TestDecodeReportsAttributeTypeMismatch(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, v := range []any{magic, version, float32(1), uint32(4)} {
		_ = binary.Write(gz, binary.LittleEndian, v)
	}
	_ = writeAttribute(gz, AttrPosition, KindFloat32x3, 1, [][3]float32{{1, 2, 3}})
	_ = writeAttribute(gz, AttrUV, KindFloat32x2, 1, [][2]float32{{0, 0}})
	// indices stored as signed ints
	_ = writeAttribute(gz, AttrIndex, KindSint32, 1, []int32{0})
	_ = writeAttribute(gz, AttrPerFaceIndex, KindSint32, 1, []int32{0})
	_ = gz.Close()

	_, err := DecodeBytes(buf.Bytes())
	var typeErr *AttributeTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("Expected AttributeTypeError, got %v", err)
	}
	if typeErr.Name != AttrIndex || typeErr.Want != KindUint32 || typeErr.Got != KindSint32 {
		t.Errorf("Unexpected error contents: %+v", typeErr)
	}
}

func TestDecodeReportsMissingAttribute(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, v := range []any{magic, version, float32(1), uint32(1)} {
		_ = binary.Write(gz, binary.LittleEndian, v)
	}
	_ = writeAttribute(gz, AttrPosition, KindFloat32x3, 0, nil)
	_ = gz.Close()

	if _, err := DecodeBytes(buf.Bytes()); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("Expected ErrMissingAttribute, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	b := sampleBuffers()
	if err := b.Validate(); err != nil {
		t.Fatalf("Expected valid buffers, got %v", err)
	}

	b.Indices = append(b.Indices, 9, 0, 1)
	if err := b.Validate(); err == nil {
		t.Error("Expected out of range index to fail validation")
	}

	b = sampleBuffers()
	b.Indices = b.Indices[:4]
	if err := b.Validate(); err == nil {
		t.Error("Expected partial triangle to fail validation")
	}

	b = sampleBuffers()
	b.PerFaceMaterial = b.PerFaceMaterial[:2]
	if err := b.Validate(); err == nil {
		t.Error("Expected short per-face buffer to fail validation")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	a := sampleBuffers()
	b := sampleBuffers()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("Identical buffers should share a fingerprint")
	}
	b.PerFaceMaterial[3] = 8
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("Changing a material should change the fingerprint")
	}
}
