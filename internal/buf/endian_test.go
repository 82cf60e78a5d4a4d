package buf

import "testing"

func Test_Endian_RoundTrip(t *testing.T) {
	b := make([]byte, 8)

	PutI32LE(b, -1234567)
	if v := I32LE(b); v != -1234567 {
		t.Fatalf("I32LE: got %d", v)
	}
	PutI64LE(b, -987654321012)
	if v := I64LE(b); v != -987654321012 {
		t.Fatalf("I64LE: got %d", v)
	}
	PutU64LE(b, 0xDEADBEEFCAFEF00D)
	if v := U64LE(b); v != 0xDEADBEEFCAFEF00D {
		t.Fatalf("U64LE: got %#x", v)
	}
}

func Test_Endian_ShortBuffers(t *testing.T) {
	short := make([]byte, 3)
	if v := I32LE(short); v != 0 {
		t.Fatalf("expected 0 from short read, got %d", v)
	}
	if v := U64LE(short); v != 0 {
		t.Fatalf("expected 0 from short read, got %d", v)
	}
	// Writers must not panic on short buffers.
	PutI32LE(short, 42)
	PutI64LE(short, 42)
	PutU64LE(short, 42)
	for _, c := range short {
		if c != 0 {
			t.Fatal("short write must be a no-op")
		}
	}
}

func Test_Endian_LayoutIsLittle(t *testing.T) {
	b := make([]byte, 4)
	PutI32LE(b, 0x01020304)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, b[i], want[i])
		}
	}
}
