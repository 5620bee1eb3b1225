package token

import "encoding/binary"

// Ключевые слова сравниваются как целые: байты слова читаются в uint64
// little-endian, незанятые старшие байты равны нулю. Таблицы разбиты по длине.
var (
	keywords2 = [...]packedKeyword{
		{pack("fn"), KwFn},
		{pack("u8"), KwU8},
		{pack("s8"), KwS8},
	}
	keywords3 = [...]packedKeyword{
		{pack("ass"), KwAss},
		{pack("asu"), KwAsu},
		{pack("let"), KwLet},
		{pack("u16"), KwU16},
		{pack("u32"), KwU32},
		{pack("u64"), KwU64},
		{pack("s16"), KwS16},
		{pack("s32"), KwS32},
		{pack("s64"), KwS64},
	}
	keywords4 = [...]packedKeyword{
		{pack("hole"), KwHole},
	}
	keywords6 = [...]packedKeyword{
		{pack("return"), KwReturn},
	}
)

type packedKeyword struct {
	bits uint64
	kind Kind
}

func pack(s string) uint64 {
	var buf [8]byte
	copy(buf[:], s)
	return binary.LittleEndian.Uint64(buf[:])
}

// LookupKeyword classifies a lowercase identifier run. It returns ValID when
// the run is not one of the fixed keywords.
func LookupKeyword(run []byte) Kind {
	var table []packedKeyword
	switch len(run) {
	case 2:
		table = keywords2[:]
	case 3:
		table = keywords3[:]
	case 4:
		table = keywords4[:]
	case 6:
		table = keywords6[:]
	default:
		return ValID
	}

	var buf [8]byte
	copy(buf[:], run)
	candidate := binary.LittleEndian.Uint64(buf[:])
	for _, kw := range table {
		if kw.bits == candidate {
			return kw.kind
		}
	}
	return ValID
}
