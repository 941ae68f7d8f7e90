package tracks

import "hash/fnv"

// hasher64 accumulates 64-bit words into an FNV-1a sum; field order is
// fixed per type so structurally equal values hash equally.
type hasher64 struct {
	h interface {
		Write([]byte) (int, error)
		Sum64() uint64
	}
}

func fnvHasher() *hasher64 { return &hasher64{h: fnv.New64a()} }

func (h *hasher64) write(v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.h.Write(buf[:])
}

func (h *hasher64) writeString(s string) {
	h.h.Write([]byte(s))
	h.h.Write([]byte{0})
}

func (h *hasher64) sum() uint64 { return h.h.Sum64() }
