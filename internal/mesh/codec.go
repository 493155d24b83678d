package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

const (
	magic   = uint32(0x4D455348) // "MESH"
	version = uint32(2)

	maxAttributeLen = 1 << 28
)

// Attribute names written by Encode.
const (
	AttrPosition      = "position"
	AttrUV            = "uv"
	AttrIndex         = "index"
	AttrPerFaceIndex  = "per_face_index"
	maxAttributeNames = 64
)

// Kind identifies the numeric element type of an attribute.
type Kind uint8

const (
	KindFloat32x3 Kind = iota + 1
	KindFloat32x2
	KindUint32
	KindSint32
)

func (k Kind) String() string {
	switch k {
	case KindFloat32x3:
		return "float32x3"
	case KindFloat32x2:
		return "float32x2"
	case KindUint32:
		return "uint32"
	case KindSint32:
		return "sint32"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// AttributeTypeError reports an attribute stored with a different numeric type than the one
// the reader requires.
type AttributeTypeError struct {
	Name string
	Want Kind
	Got  Kind
}

func (e *AttributeTypeError) Error() string {
	return fmt.Sprintf("mesh: attribute %q has type %s, expected %s", e.Name, e.Got, e.Want)
}

// ErrMissingAttribute is returned when a required attribute is absent.
var ErrMissingAttribute = errors.New("mesh: missing attribute")

type attribute struct {
	kind  Kind
	count int32
	data  []byte
}

// Encode writes the buffers in the compressed binary mesh format.
func Encode(w io.Writer, b *Buffers) error {
	gz := gzip.NewWriter(w)

	header := []any{magic, version, b.Scale, uint32(4)}
	for _, v := range header {
		if err := binary.Write(gz, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if err := writeAttribute(gz, AttrPosition, KindFloat32x3, len(b.Positions), b.Positions); err != nil {
		return err
	}
	if err := writeAttribute(gz, AttrUV, KindFloat32x2, len(b.UVs), b.UVs); err != nil {
		return err
	}
	if err := writeAttribute(gz, AttrIndex, KindUint32, len(b.Indices), b.Indices); err != nil {
		return err
	}
	if err := writeAttribute(gz, AttrPerFaceIndex, KindSint32, len(b.PerFaceMaterial), b.PerFaceMaterial); err != nil {
		return err
	}

	return gz.Close()
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(b *Buffers) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads buffers written by Encode.
func Decode(r io.Reader) (*Buffers, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var hdrMagic, hdrVersion uint32
	if err := binary.Read(gz, binary.LittleEndian, &hdrMagic); err != nil {
		return nil, err
	}
	if hdrMagic != magic {
		return nil, fmt.Errorf("invalid mesh file magic: %x", hdrMagic)
	}
	if err := binary.Read(gz, binary.LittleEndian, &hdrVersion); err != nil {
		return nil, err
	}
	if hdrVersion != version {
		return nil, fmt.Errorf("unsupported mesh version: %d", hdrVersion)
	}

	out := &Buffers{}
	if err := binary.Read(gz, binary.LittleEndian, &out.Scale); err != nil {
		return nil, err
	}
	var attrCount uint32
	if err := binary.Read(gz, binary.LittleEndian, &attrCount); err != nil {
		return nil, err
	}
	if attrCount > maxAttributeNames {
		return nil, fmt.Errorf("mesh: %d attributes exceeds limit", attrCount)
	}

	attrs := make(map[string]attribute, attrCount)
	for i := uint32(0); i < attrCount; i++ {
		name, attr, err := readAttribute(gz)
		if err != nil {
			return nil, err
		}
		attrs[name] = attr
	}

	if out.Positions, err = decodeAttribute[[3]float32](attrs, AttrPosition, KindFloat32x3); err != nil {
		return nil, err
	}
	if out.UVs, err = decodeAttribute[[2]float32](attrs, AttrUV, KindFloat32x2); err != nil {
		return nil, err
	}
	if out.Indices, err = decodeAttribute[uint32](attrs, AttrIndex, KindUint32); err != nil {
		return nil, err
	}
	if out.PerFaceMaterial, err = decodeAttribute[int32](attrs, AttrPerFaceIndex, KindSint32); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (*Buffers, error) {
	return Decode(bytes.NewReader(data))
}

func elementSize(k Kind) int {
	switch k {
	case KindFloat32x3:
		return 12
	case KindFloat32x2:
		return 8
	case KindUint32, KindSint32:
		return 4
	}
	return 0
}

func writeAttribute(w io.Writer, name string, kind Kind, count int, data any) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, kind); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(count)); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return binary.Write(w, binary.LittleEndian, data)
}

func readAttribute(r io.Reader) (string, attribute, error) {
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return "", attribute{}, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return "", attribute{}, err
	}

	var attr attribute
	if err := binary.Read(r, binary.LittleEndian, &attr.kind); err != nil {
		return "", attribute{}, err
	}
	size := elementSize(attr.kind)
	if size == 0 {
		return "", attribute{}, fmt.Errorf("mesh: attribute %q has unknown type %d", name, attr.kind)
	}
	if err := binary.Read(r, binary.LittleEndian, &attr.count); err != nil {
		return "", attribute{}, err
	}
	if attr.count < 0 || int(attr.count)*size > maxAttributeLen {
		return "", attribute{}, fmt.Errorf("mesh: attribute %q has invalid length %d", name, attr.count)
	}
	attr.data = make([]byte, int(attr.count)*size)
	if _, err := io.ReadFull(r, attr.data); err != nil {
		return "", attribute{}, err
	}
	return string(name), attr, nil
}

func decodeAttribute[T any](attrs map[string]attribute, name string, want Kind) ([]T, error) {
	attr, ok := attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
	}
	if attr.kind != want {
		return nil, &AttributeTypeError{Name: name, Want: want, Got: attr.kind}
	}
	out := make([]T, attr.count)
	if attr.count == 0 {
		return out, nil
	}
	if err := binary.Read(bytes.NewReader(attr.data), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("mesh: decode %s: %w", name, err)
	}
	return out, nil
}
