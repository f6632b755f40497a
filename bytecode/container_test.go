package bytecode

import (
	"bytes"
	"testing"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	original := Container{VarCount: 3, Code: make([]byte, 16)}
	var buf bytes.Buffer
	if err := Write(&buf, original); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.VarCount != original.VarCount {
		t.Errorf("got VarCount %d, want %d", loaded.VarCount, original.VarCount)
	}
	if !bytes.Equal(loaded.Code, original.Code) {
		t.Errorf("got code %v, want %v", loaded.Code, original.Code)
	}
}

func TestHeaderIsThirtyTwoBytesStartingWithMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Container{VarCount: 0, Code: nil}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	header := buf.Bytes()[:HeaderSize]
	if string(header[:16]) != Magic {
		t.Errorf("got magic %q, want %q", header[:16], Magic)
	}
	if len(header) != 32 {
		t.Errorf("got header length %d, want 32", len(header))
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	bad := make([]byte, HeaderSize)
	copy(bad, "NOTMANDRILLATALL")
	_, err := Load(bytes.NewReader(bad))
	containerErr, ok := err.(ContainerError)
	if !ok || containerErr.Kind != InvalidMagic {
		t.Fatalf("got err %v, want ContainerError{InvalidMagic}", err)
	}
}

func TestLoadRejectsTruncatedHeader(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("too short")))
	containerErr, ok := err.(ContainerError)
	if !ok || containerErr.Kind != Truncated {
		t.Fatalf("got err %v, want ContainerError{Truncated}", err)
	}
}

func TestLoadRejectsTruncatedCodeRegion(t *testing.T) {
	var buf bytes.Buffer
	_ = Write(&buf, Container{VarCount: 0, Code: make([]byte, 8)})
	truncated := buf.Bytes()[:HeaderSize+4]
	_, err := Load(bytes.NewReader(truncated))
	containerErr, ok := err.(ContainerError)
	if !ok || containerErr.Kind != Truncated {
		t.Fatalf("got err %v, want ContainerError{Truncated}", err)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	_ = Write(&buf, Container{VarCount: 0, Code: nil})
	raw := buf.Bytes()
	raw[19] = 2 // bump the low byte of the big-endian version field
	_, err := Load(bytes.NewReader(raw))
	containerErr, ok := err.(ContainerError)
	if !ok || containerErr.Kind != UnsupportedVersion {
		t.Fatalf("got err %v, want ContainerError{UnsupportedVersion}", err)
	}
}

func TestWriteRejectsMisalignedCode(t *testing.T) {
	err := Write(&bytes.Buffer{}, Container{VarCount: 0, Code: make([]byte, 5)})
	containerErr, ok := err.(ContainerError)
	if !ok || containerErr.Kind != Misaligned {
		t.Fatalf("got err %v, want ContainerError{Misaligned}", err)
	}
}
