package neuromisc

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"
)

func TestMaybeDecompressGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte("0.1 0.2 0.3\n")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	r, dt, err := MaybeDecompress(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeGzip {
		t.Fatal("Expected gzip, got", dt)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "0.1 0.2 0.3\n" {
		t.Error("Unexpected contents", string(out))
	}
}

func TestMaybeDecompressPlain(t *testing.T) {
	r, dt, err := MaybeDecompress(strings.NewReader("a"))
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeNoCompression {
		t.Fatal("Expected no compression, got", dt)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "a" {
		t.Error("Short streams must survive detection, got", string(out))
	}
}

func TestDetermineDelimiter(t *testing.T) {
	r := strings.NewReader("SITE_ID\tSUB_ID\tSEX\nYALE\t50551\t1\nYALE\t50552\t2\n")
	delim, err := DetermineDelimiter(r)
	if err != nil {
		t.Fatal(err)
	}
	if delim != '\t' {
		t.Errorf("Expected tab, got %q", delim)
	}

	// The reader must be rewound
	head := make([]byte, 7)
	if _, err := io.ReadFull(r, head); err != nil {
		t.Fatal(err)
	}
	if string(head) != "SITE_ID" {
		t.Error("Reader was not rewound:", string(head))
	}
}
