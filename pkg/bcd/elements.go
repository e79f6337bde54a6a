package bcd

import "fmt"

// ElementCode is a 32-bit element type code as published by the platform's
// boot configuration scheme. The top byte encodes the owning class and the
// value format; the low bits distinguish elements within a class.
type ElementCode uint32

// Element value formats, encoded in bits 24-27 of the type code.
type Format uint32

const (
	FormatDevice     Format = 0x1
	FormatString     Format = 0x2
	FormatObject     Format = 0x3
	FormatObjectList Format = 0x4
	FormatInteger    Format = 0x5
	FormatBoolean    Format = 0x6
)

// Owning element classes, encoded in bits 28-31 of the type code.
type Class uint32

const (
	ClassLibrary     Class = 0x1
	ClassApplication Class = 0x2
	ClassDevice      Class = 0x3
)

func (c ElementCode) Format() Format {
	return Format(c >> 24 & 0xf)
}

func (c ElementCode) Class() Class {
	return Class(c >> 28 & 0xf)
}

func (c ElementCode) String() string {
	return fmt.Sprintf("0x%08x", uint32(c))
}

// The element codes this package manipulates. The set is intentionally
// closed; growing it means adding entries here, never changing lookup
// semantics.
const (
	ApplicationDevice ElementCode = 0x11000001
	Description       ElementCode = 0x12000004
	OSDevice          ElementCode = 0x21000001
	DisplayOrder      ElementCode = 0x24000001
	Timeout           ElementCode = 0x25000004
	DisplayBootMenu   ElementCode = 0x26000020
)

var elementCodes = map[string]ElementCode{
	"ApplicationDevice": ApplicationDevice,
	"Description":       Description,
	"OSDevice":          OSDevice,
	"DisplayOrder":      DisplayOrder,
	"Timeout":           Timeout,
	"DisplayBootMenu":   DisplayBootMenu,
}

// Lookup resolves a symbolic element name to its type code.
func Lookup(name string) (ElementCode, error) {
	code, ok := elementCodes[name]
	if !ok {
		return 0, &UnknownElementTypeError{Name: name}
	}
	return code, nil
}
