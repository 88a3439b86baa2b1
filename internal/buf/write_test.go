package buf

import "testing"

func TestPutHelpersRoundTrip(t *testing.T) {
	b := make([]byte, 8)
	PutU16LE(b[0:2], 0x2301)
	if got := U16LE(b); got != 0x2301 {
		t.Fatalf("PutU16LE round-trip = 0x%x, want 0x2301", got)
	}
	PutU32LE(b[0:4], 0x67452301)
	if got := U32LE(b); got != 0x67452301 {
		t.Fatalf("PutU32LE round-trip = 0x%x, want 0x67452301", got)
	}
	PutU64LE(b, 0xefcdab8967452301)
	if got := U64LE(b); got != 0xefcdab8967452301 {
		t.Fatalf("PutU64LE round-trip = 0x%x, want 0xefcdab8967452301", got)
	}
	PutI32LE(b[0:4], -1)
	if got := I32LE(b); got != -1 {
		t.Fatalf("PutI32LE round-trip = %d, want -1", got)
	}
}

func TestAppendHelpers(t *testing.T) {
	var b []byte
	b = AppendU16LE(b, 0x1234)
	b = AppendU32LE(b, 0xdeadbeef)
	b = AppendI32LE(b, -2)
	if len(b) != 2+4+4 {
		t.Fatalf("unexpected length %d", len(b))
	}
	if U16LE(b) != 0x1234 {
		t.Fatalf("AppendU16LE produced wrong bytes")
	}
	if U32LE(b[2:]) != 0xdeadbeef {
		t.Fatalf("AppendU32LE produced wrong bytes")
	}
	if I32LE(b[6:]) != -2 {
		t.Fatalf("AppendI32LE produced wrong bytes")
	}
}

func TestAlign(t *testing.T) {
	cases := []struct {
		n, a, want int
	}{
		{0, 4, 0}, {1, 4, 4}, {4, 4, 4}, {5, 4, 8},
		{0, 8, 0}, {1, 8, 8}, {8, 8, 8}, {9, 8, 16},
	}
	for _, c := range cases {
		if got := Align(c.n, c.a); got != c.want {
			t.Fatalf("Align(%d,%d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
	if Align4(5) != 8 {
		t.Fatalf("Align4(5) wrong")
	}
	if Align8(9) != 16 {
		t.Fatalf("Align8(9) wrong")
	}
}
