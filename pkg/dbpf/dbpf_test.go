// SPDX-License-Identifier: MPL-2.0

package dbpf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

// buildPackage assembles a minimal DBPF 1.0 file whose index lists tgis.
// Payloads are empty; the index table directly follows the header.
func buildPackage(t *testing.T, indexMinor uint32, tgis ...tgi.TGI) []byte {
	t.Helper()

	width := indexEntrySize70
	if indexMinor == 1 {
		width = indexEntrySize71
	}

	header := make([]byte, HeaderSize)
	copy(header, Magic)
	le := binary.LittleEndian
	le.PutUint32(header[4:], 1)
	le.PutUint32(header[32:], 7)
	le.PutUint32(header[36:], uint32(len(tgis)))
	le.PutUint32(header[40:], HeaderSize)
	le.PutUint32(header[44:], uint32(len(tgis)*width))
	le.PutUint32(header[60:], indexMinor)

	var buf bytes.Buffer
	buf.Write(header)
	for i, id := range tgis {
		rec := make([]byte, width)
		le.PutUint32(rec[0:], id.Type)
		le.PutUint32(rec[4:], id.Group)
		le.PutUint32(rec[8:], id.Instance)
		tail := rec[12:]
		if width == indexEntrySize71 {
			tail = rec[16:]
		}
		le.PutUint32(tail[0:], uint32(1000+i))
		le.PutUint32(tail[4:], uint32(10*i))
		buf.Write(rec)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParser_ExtractResourceIdentifiers(t *testing.T) {
	t.Parallel()

	want := []tgi.TGI{
		tgi.New(0x6534284a, 0x4a3e1d2b, 0x00000001),
		tgi.New(0xea5118b0, 0x6a6e43d0, 0xc9e09d40),
	}

	for _, minor := range []uint32{0, 1} {
		dir := t.TempDir()
		path := writeFile(t, dir, "mod.dat", buildPackage(t, minor, want...))

		p := NewParser()
		if !p.IsRecognizedPackage(path) {
			t.Fatalf("index 7.%d: IsRecognizedPackage() = false", minor)
		}
		got, err := p.ExtractResourceIdentifiers(path)
		if err != nil {
			t.Fatalf("index 7.%d: ExtractResourceIdentifiers() error: %v", minor, err)
		}
		if len(got) != len(want) {
			t.Fatalf("index 7.%d: got %d TGIs, want %d", minor, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("index 7.%d: TGI[%d] = %v, want %v", minor, i, got[i], want[i])
			}
		}
	}
}

func TestReadIndex_EntryOffsets(t *testing.T) {
	t.Parallel()

	data := buildPackage(t, 1, tgi.New(1, 2, 3), tgi.New(4, 5, 6))
	entries, err := ReadIndex(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadIndex() error: %v", err)
	}
	if entries[1].Offset != 1001 || entries[1].Size != 10 {
		t.Errorf("entry[1] = %+v, want offset 1001 size 10", entries[1])
	}
}

func TestParser_IsRecognizedPackage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewParser()

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "dbpf", data: buildPackage(t, 0), want: true},
		{name: "text", data: []byte("hello world"), want: false},
		{name: "short", data: []byte("DB"), want: false},
		{name: "empty", data: nil, want: false},
	}

	for _, tt := range tests {
		path := writeFile(t, dir, tt.name+".bin", tt.data)
		if got := p.IsRecognizedPackage(path); got != tt.want {
			t.Errorf("IsRecognizedPackage(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if p.IsRecognizedPackage(filepath.Join(dir, "missing.dat")) {
		t.Error("IsRecognizedPackage() = true for a missing file")
	}
}

func TestParser_CorruptFiles(t *testing.T) {
	t.Parallel()

	valid := buildPackage(t, 0, tgi.New(1, 2, 3), tgi.New(4, 5, 6))

	truncated := valid[:len(valid)-5]

	badVersion := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badVersion[4:], 3)

	badIndexVersion := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badIndexVersion[32:], 9)

	hugeCount := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(hugeCount[36:], 0xFFFFFFFF)

	headerOnly := []byte(Magic + "short")

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "truncated index", data: truncated, wantErr: ErrCorruptIndex},
		{name: "unsupported major", data: badVersion, wantErr: ErrUnsupportedVersion},
		{name: "unsupported index", data: badIndexVersion, wantErr: ErrUnsupportedVersion},
		{name: "huge entry count", data: hugeCount, wantErr: ErrCorruptIndex},
		{name: "truncated header", data: headerOnly, wantErr: ErrNotDBPF},
	}

	dir := t.TempDir()
	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, dir, tt.name+".dat", tt.data)
			_, err := p.ExtractResourceIdentifiers(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadIndex_Empty(t *testing.T) {
	t.Parallel()

	data := buildPackage(t, 0)
	entries, err := ReadIndex(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadIndex() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
