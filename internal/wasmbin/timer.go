package wasmbin

// Export names of the timer guest.
const (
	TimerNow   = "now"
	TimerDelta = "delta"
)

const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionExport   byte = 7
	sectionCode     byte = 10

	funcTypeByte byte = 0x60
	valTypeF64   byte = 0x7c
	kindFunc     byte = 0x00

	opCall     byte = 0x10
	opLocalGet byte = 0x20
	opLocalSet byte = 0x21
	opF64Sub   byte = 0xa1
	opEnd      byte = 0x0b
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// Timer encodes a core module importing module.name as () -> f64.
//
// Exports:
//
//	now   () -> f64   one reading
//	delta () -> f64   second reading minus first
func Timer(module, name string) []byte {
	w := NewWriter()
	w.Byte(header...)

	// type 0: () -> f64
	sec := NewWriter()
	sec.WriteU32(1)
	sec.Byte(funcTypeByte)
	sec.WriteU32(0)
	sec.WriteU32(1)
	sec.Byte(valTypeF64)
	w.WriteSection(sectionType, sec)

	// func 0 is the import
	sec = NewWriter()
	sec.WriteU32(1)
	sec.WriteName(module)
	sec.WriteName(name)
	sec.Byte(kindFunc)
	sec.WriteU32(0)
	w.WriteSection(sectionImport, sec)

	sec = NewWriter()
	sec.WriteU32(2)
	sec.WriteU32(0)
	sec.WriteU32(0)
	w.WriteSection(sectionFunction, sec)

	sec = NewWriter()
	sec.WriteU32(2)
	sec.WriteName(TimerNow)
	sec.Byte(kindFunc)
	sec.WriteU32(1)
	sec.WriteName(TimerDelta)
	sec.Byte(kindFunc)
	sec.WriteU32(2)
	w.WriteSection(sectionExport, sec)

	sec = NewWriter()
	sec.WriteU32(2)
	writeBody(sec, nil, opCall, 0, opEnd)
	writeBody(sec, []byte{valTypeF64},
		opCall, 0,
		opLocalSet, 0,
		opCall, 0,
		opLocalGet, 0,
		opF64Sub,
		opEnd,
	)
	w.WriteSection(sectionCode, sec)

	return w.Bytes()
}

// writeBody writes a function body with one local per entry in locals.
func writeBody(w *Writer, locals []byte, code ...byte) {
	body := NewWriter()
	body.WriteU32(uint32(len(locals)))
	for _, vt := range locals {
		body.WriteU32(1)
		body.Byte(vt)
	}
	body.Byte(code...)

	w.WriteU32(uint32(body.Len()))
	w.Byte(body.Bytes()...)
}
