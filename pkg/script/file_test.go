// SPDX-License-Identifier: MPL-2.0

package script

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	t.Parallel()

	input := "\uFEFF;comment\r\n>Hello\r\n\r\n*.bak\nlast"
	got, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}
	want := []string{";comment", ">Hello", "", "*.bak", "last"}
	if !slices.Equal(got, want) {
		t.Errorf("ReadLines() = %q, want %q", got, want)
	}
}

func TestReadLines_Empty(t *testing.T) {
	t.Parallel()

	got, err := ReadLines(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadLines() = %q, want none", got)
	}
}

func TestCreateFromFolderAndWriteScript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "mod")
	for _, rel := range []string{"a.dat", filepath.Join("sub", "b.SC4Lot"), filepath.Join("sub", "deep", "c.txt")} {
		path := filepath.Join(src, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names, err := CreateFromFolder(src)
	if err != nil {
		t.Fatalf("CreateFromFolder() error: %v", err)
	}
	slices.Sort(names)
	if want := []string{"a.dat", "b.SC4Lot", "c.txt"}; !slices.Equal(names, want) {
		t.Errorf("CreateFromFolder() = %q, want %q", names, want)
	}

	out := filepath.Join(dir, "mod_cleanitol.txt")
	if err := WriteScript(out, names); err != nil {
		t.Fatalf("WriteScript() error: %v", err)
	}
	lines, err := LoadFile(out)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !slices.Equal(lines, names) {
		t.Errorf("LoadFile() = %q, want %q", lines, names)
	}
	for _, r := range ParseAll(lines) {
		if r.Kind != KindRemoval {
			t.Errorf("generated line %q parsed as %v, want removal", r.Text, r.Kind)
		}
	}
}

func TestCreateFromFolder_NotADirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateFromFolder(file); err == nil {
		t.Error("CreateFromFolder(file) expected error")
	}
}
