package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

/*
	Records are persisted in the protobuf wire format without generated message types.
	Scalars are varints, identifiers are length delimited strings, zero values are omitted like proto3.
*/

// Number is a record field number
type Number = protowire.Number

// Field is a single numbered value of a record; Value must be a uint64 or a string
type Field struct {
	Num   protowire.Number
	Value any
}

// Marshal() encodes the fields in the order given
func Marshal(fields ...Field) ([]byte, error) {
	var bz []byte
	for _, f := range fields {
		switch v := f.Value.(type) {
		case uint64:
			if v == 0 {
				continue
			}
			bz = protowire.AppendTag(bz, f.Num, protowire.VarintType)
			bz = protowire.AppendVarint(bz, v)
		case string:
			if v == "" {
				continue
			}
			bz = protowire.AppendTag(bz, f.Num, protowire.BytesType)
			bz = protowire.AppendString(bz, v)
		default:
			return nil, fmt.Errorf("field %d has unsupported type %T", f.Num, f.Value)
		}
	}
	return bz, nil
}

// Unmarshal() decodes bz into the destinations keyed by field number; each must be a *uint64 or *string
// unknown fields are skipped so older records stay readable
func Unmarshal(bz []byte, dst map[protowire.Number]any) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return protowire.ParseError(n)
		}
		bz = bz[n:]
		ptr, known := dst[num]
		switch {
		case known && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(bz)
			if m < 0 {
				return protowire.ParseError(m)
			}
			p, ok := ptr.(*uint64)
			if !ok {
				return fmt.Errorf("field %d: varint into %T", num, ptr)
			}
			*p, n = v, m
		case known && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(bz)
			if m < 0 {
				return protowire.ParseError(m)
			}
			p, ok := ptr.(*string)
			if !ok {
				return fmt.Errorf("field %d: bytes into %T", num, ptr)
			}
			*p, n = v, m
		default:
			n = protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return protowire.ParseError(n)
			}
		}
		bz = bz[n:]
	}
	return nil
}
