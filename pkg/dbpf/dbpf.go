// SPDX-License-Identifier: MPL-2.0

package dbpf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

const (
	// Magic is the four-byte signature at the start of every DBPF file.
	Magic = "DBPF"
	// HeaderSize is the size in bytes of a DBPF 1.x header.
	HeaderSize = 96

	// indexEntrySize70 is the entry size for index version 7.0 (T, G, I, offset, size).
	indexEntrySize70 = 20
	// indexEntrySize71 is the entry size for index version 7.1 (T, G, I, resource, offset, size).
	indexEntrySize71 = 24

	// maxIndexEntries guards against corrupt headers claiming absurd entry counts.
	maxIndexEntries = 1 << 22
)

var (
	// ErrNotDBPF is returned when a file does not start with the DBPF signature.
	ErrNotDBPF = errors.New("not a DBPF file")
	// ErrUnsupportedVersion is the sentinel error wrapped by UnsupportedVersionError.
	ErrUnsupportedVersion = errors.New("unsupported DBPF version")
	// ErrCorruptIndex is the sentinel error wrapped by CorruptIndexError.
	ErrCorruptIndex = errors.New("corrupt DBPF index")
)

type (
	// Header holds the fields of a DBPF 1.x header that locate the index.
	Header struct {
		MajorVersion      uint32
		MinorVersion      uint32
		IndexMajorVersion uint32
		IndexEntryCount   uint32
		IndexOffset       uint32
		IndexSize         uint32
		IndexMinorVersion uint32
	}

	// Entry is one record of the index table.
	Entry struct {
		TGI    tgi.TGI
		Offset uint32
		Size   uint32
	}

	// UnsupportedVersionError is returned when a header declares a file or
	// index version this package cannot decode.
	UnsupportedVersionError struct {
		Major, Minor uint32
	}

	// CorruptIndexError is returned when the index table is inconsistent with
	// the header or truncated.
	CorruptIndexError struct {
		Reason string
	}

	// Parser reads TGIs from DBPF files on disk.
	Parser struct{}
)

// Error implements the error interface for UnsupportedVersionError.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported DBPF version %d.%d", e.Major, e.Minor)
}

// Unwrap returns ErrUnsupportedVersion for errors.Is() compatibility.
func (e *UnsupportedVersionError) Unwrap() error { return ErrUnsupportedVersion }

// Error implements the error interface for CorruptIndexError.
func (e *CorruptIndexError) Error() string {
	return "corrupt DBPF index: " + e.Reason
}

// Unwrap returns ErrCorruptIndex for errors.Is() compatibility.
func (e *CorruptIndexError) Unwrap() error { return ErrCorruptIndex }

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// IsRecognizedPackage reports whether the file at path starts with the DBPF
// signature. Unreadable files are not recognized.
func (p *Parser) IsRecognizedPackage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // read-only

	var sig [len(Magic)]byte
	if _, err := io.ReadFull(f, sig[:]); err != nil {
		return false
	}
	return string(sig[:]) == Magic
}

// ExtractResourceIdentifiers returns the TGI of every index entry in the file
// at path, in index order.
func (p *Parser) ExtractResourceIdentifiers(path string) ([]tgi.TGI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	entries, err := ReadIndex(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tgis := make([]tgi.TGI, len(entries))
	for i, e := range entries {
		tgis[i] = e.TGI
	}
	return tgis, nil
}

// ReadHeader decodes the header at the start of r.
func ReadHeader(r io.ReaderAt) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, ErrNotDBPF
		}
		return Header{}, err
	}
	if string(buf[:4]) != Magic {
		return Header{}, ErrNotDBPF
	}

	le := binary.LittleEndian
	h := Header{
		MajorVersion:      le.Uint32(buf[4:]),
		MinorVersion:      le.Uint32(buf[8:]),
		IndexMajorVersion: le.Uint32(buf[32:]),
		IndexEntryCount:   le.Uint32(buf[36:]),
		IndexOffset:       le.Uint32(buf[40:]),
		IndexSize:         le.Uint32(buf[44:]),
		IndexMinorVersion: le.Uint32(buf[60:]),
	}
	if h.MajorVersion != 1 {
		return h, &UnsupportedVersionError{Major: h.MajorVersion, Minor: h.MinorVersion}
	}
	return h, nil
}

// entrySize returns the index entry width for the header's index version.
func (h Header) entrySize() (int, error) {
	if h.IndexMajorVersion != 7 {
		return 0, &UnsupportedVersionError{Major: h.IndexMajorVersion, Minor: h.IndexMinorVersion}
	}
	switch h.IndexMinorVersion {
	case 0:
		return indexEntrySize70, nil
	case 1:
		return indexEntrySize71, nil
	default:
		return 0, &UnsupportedVersionError{Major: h.IndexMajorVersion, Minor: h.IndexMinorVersion}
	}
}

// ReadIndex decodes the header and index table of a DBPF file of the given
// size.
func ReadIndex(r io.ReaderAt, size int64) ([]Entry, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if h.IndexEntryCount == 0 {
		return nil, nil
	}
	if h.IndexEntryCount > maxIndexEntries {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("entry count %d exceeds limit", h.IndexEntryCount)}
	}

	width, err := h.entrySize()
	if err != nil {
		return nil, err
	}

	tableLen := int64(h.IndexEntryCount) * int64(width)
	if int64(h.IndexOffset)+tableLen > size {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("index table [%d, %d) exceeds file size %d",
			h.IndexOffset, int64(h.IndexOffset)+tableLen, size)}
	}

	buf := make([]byte, tableLen)
	if _, err := r.ReadAt(buf, int64(h.IndexOffset)); err != nil {
		return nil, &CorruptIndexError{Reason: err.Error()}
	}

	le := binary.LittleEndian
	entries := make([]Entry, h.IndexEntryCount)
	for i := range entries {
		rec := buf[i*width:]
		e := Entry{TGI: tgi.New(le.Uint32(rec[0:]), le.Uint32(rec[4:]), le.Uint32(rec[8:]))}
		if width == indexEntrySize71 {
			rec = rec[4:]
		}
		e.Offset = le.Uint32(rec[12:])
		e.Size = le.Uint32(rec[16:])
		entries[i] = e
	}
	return entries, nil
}
