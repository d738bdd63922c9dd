package jsontoken

import "github.com/cockroachdb/apd/v3"

// Reader is the structural surface Decoder and ValueReader both
// implement: spec.md §4.1/§4.3 describe the UTF-8 and value-tree readers
// as "the same token protocol", so an adapter written against Reader
// works against either backend unmodified.
type Reader interface {
	Peek() (Kind, error)
	BeginArray() error
	EndArray() error
	BeginObject() error
	EndObject() error
	HasNext() (bool, error)
	ReadName() (string, error)
	ReadString() (string, error)
	ReadBool() (bool, error)
	ReadNull() error
	ReadInt64() (int64, error)
	ReadFloat64() (float64, error)
	ReadBigDecimal() (*apd.Decimal, error)
	SkipValue() error
	Path() string
	Close() error
}

// Writer is the structural surface Encoder and ValueWriter both
// implement.
type Writer interface {
	Name(string) error
	WriteBool(bool) error
	WriteString(string) error
	WriteInt64(int64) error
	WriteFloat64(float64) error
	WriteBigDecimal(*apd.Decimal) error
	WriteNull() error
	BeginArray() error
	EndArray() error
	BeginObject() error
	EndObject() error
	Path() string
	Close() error
}

var (
	_ Reader = (*Decoder)(nil)
	_ Reader = (*ValueReader)(nil)
	_ Writer = (*Encoder)(nil)
	_ Writer = (*ValueWriter)(nil)
)
