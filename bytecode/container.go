package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic is the fixed 16-byte container identifier.
const Magic = "MANDRILLBYTECODE"

// Version is the only container version this package writes or accepts.
const Version uint32 = 1

// HeaderSize is the fixed size, in bytes, of the container header.
const HeaderSize = 32

// Container is a decoded bytecode image: VarCount global variable slots
// and the instruction stream to run against them.
type Container struct {
	VarCount int
	Code     []byte
}

// Write encodes a Container in the Mandrill binary format and writes it to w.
func Write(w io.Writer, c Container) error {
	if len(c.Code)%8 != 0 {
		return ContainerError{Misaligned, fmt.Sprintf("code size %d is not a multiple of 8", len(c.Code))}
	}

	var header [HeaderSize]byte
	copy(header[0:16], Magic)
	binary.BigEndian.PutUint32(header[16:20], Version)
	binary.BigEndian.PutUint32(header[20:24], uint32(c.VarCount)*4)
	binary.BigEndian.PutUint32(header[24:28], uint32(len(c.Code)))
	// header[28:32] stays zero: reserved padding.

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(c.Code)
	return err
}

// Load decodes a Mandrill bytecode container from r.
func Load(r io.Reader) (Container, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Container{}, ContainerError{Truncated, "input shorter than the 32-byte header"}
		}
		return Container{}, err
	}

	if string(header[0:16]) != Magic {
		return Container{}, ContainerError{InvalidMagic, fmt.Sprintf("expected magic %q, found %q", Magic, header[0:16])}
	}

	version := binary.BigEndian.Uint32(header[16:20])
	if version != Version {
		return Container{}, ContainerError{UnsupportedVersion, fmt.Sprintf("unsupported version %d", version)}
	}

	dataSize := binary.BigEndian.Uint32(header[20:24])
	codeSize := binary.BigEndian.Uint32(header[24:28])

	if dataSize%4 != 0 {
		return Container{}, ContainerError{Misaligned, fmt.Sprintf("data size %d is not a multiple of 4", dataSize)}
	}
	if codeSize%8 != 0 {
		return Container{}, ContainerError{Misaligned, fmt.Sprintf("code size %d is not a multiple of 8", codeSize)}
	}

	code := make([]byte, codeSize)
	if _, err := io.ReadFull(r, code); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Container{}, ContainerError{Truncated, fmt.Sprintf("expected %d bytes of code, input ended early", codeSize)}
		}
		return Container{}, err
	}

	return Container{VarCount: int(dataSize / 4), Code: code}, nil
}
