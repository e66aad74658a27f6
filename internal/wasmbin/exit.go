package wasmbin

const (
	valTypeI32 byte = 0x7f
	opI32Const byte = 0x41
)

// Exit encodes a WASI command whose _start calls
// wasi_snapshot_preview1.proc_exit with code.
func Exit(code int32) []byte {
	w := NewWriter()
	w.Byte(header...)

	// type 0: (i32) -> (), type 1: () -> ()
	sec := NewWriter()
	sec.WriteU32(2)
	sec.Byte(funcTypeByte)
	sec.WriteU32(1)
	sec.Byte(valTypeI32)
	sec.WriteU32(0)
	sec.Byte(funcTypeByte)
	sec.WriteU32(0)
	sec.WriteU32(0)
	w.WriteSection(sectionType, sec)

	sec = NewWriter()
	sec.WriteU32(1)
	sec.WriteName("wasi_snapshot_preview1")
	sec.WriteName("proc_exit")
	sec.Byte(kindFunc)
	sec.WriteU32(0)
	w.WriteSection(sectionImport, sec)

	sec = NewWriter()
	sec.WriteU32(1)
	sec.WriteU32(1)
	w.WriteSection(sectionFunction, sec)

	sec = NewWriter()
	sec.WriteU32(1)
	sec.WriteName("_start")
	sec.Byte(kindFunc)
	sec.WriteU32(1)
	w.WriteSection(sectionExport, sec)

	code32 := NewWriter()
	code32.Byte(opI32Const)
	code32.WriteS32(code)
	code32.Byte(opCall, 0, opEnd)

	sec = NewWriter()
	sec.WriteU32(1)
	writeBody(sec, nil, code32.Bytes()...)
	w.WriteSection(sectionCode, sec)

	return w.Bytes()
}
