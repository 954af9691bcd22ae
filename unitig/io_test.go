package unitig

import (
	"bytes"
	"testing"
)

func TestWriteReadIndexRoundTrip(t *testing.T) {
	bank := Bank{[]byte("AAAACCCCGGGG"), []byte("AAAATTTTGGGG")}
	index := Index{
		{UnitigID: 0, Strand: Forward, Offset: 0, UnitigLength: 12},
		{UnitigID: 1, Strand: Reverse, Offset: 4, UnitigLength: 12},
	}

	var buf bytes.Buffer
	if err := WriteIndex(&buf, 4, bank, index); err != nil {
		t.Fatalf("WriteIndex: %s", err)
	}

	k, gotBank, gotIndex, err := ReadIndex(&buf)
	if err != nil {
		t.Fatalf("ReadIndex: %s", err)
	}
	if k != 4 {
		t.Errorf("k = %d, want 4", k)
	}
	if len(gotBank) != len(bank) {
		t.Fatalf("bank length = %d, want %d", len(gotBank), len(bank))
	}
	for i := range bank {
		if !bytes.Equal(gotBank[i], bank[i]) {
			t.Errorf("bank[%d] = %s, want %s", i, gotBank[i], bank[i])
		}
	}
	if len(gotIndex) != len(index) {
		t.Fatalf("index length = %d, want %d", len(gotIndex), len(index))
	}
	for i := range index {
		if gotIndex[i] != index[i] {
			t.Errorf("index[%d] = %+v, want %+v", i, gotIndex[i], index[i])
		}
	}
}

func TestWriteFasta(t *testing.T) {
	bank := Bank{[]byte("AAAACCCCGGGG"), []byte("AAAATTTTGGGG")}

	var buf bytes.Buffer
	if err := WriteFasta(&buf, bank); err != nil {
		t.Fatalf("WriteFasta: %s", err)
	}

	want := ">0\nAAAACCCCGGGG\n>1\nAAAATTTTGGGG\n"
	if buf.String() != want {
		t.Errorf("fasta = %q, want %q", buf.String(), want)
	}
}
