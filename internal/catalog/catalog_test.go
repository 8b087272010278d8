// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"
	"testing"

	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

func TestSortPaths(t *testing.T) {
	t.Parallel()

	paths := []string{"b.dat", "A.dat", "a.dat", "C/x.dat", "c/a.dat"}
	SortPaths(paths)

	want := []string{"A.dat", "a.dat", "b.dat", "c/a.dat", "C/x.dat"}
	if !slices.Equal(paths, want) {
		t.Errorf("SortPaths() = %v, want %v", paths, want)
	}
}

func TestCatalog_HasFile(t *testing.T) {
	t.Parallel()

	cat := New("/plugins",
		[]string{"/plugins/Deps/BSC_Textures.dat", "/plugins/z/Mod.SC4Lot"},
		[]string{"/plugins/Deps/BSC_Textures.dat", "/plugins/z/Mod.SC4Lot"},
		nil, false)

	tests := []struct {
		name string
		want bool
	}{
		{"BSC_Textures.dat", true},
		{"bsc_textures.DAT", true},
		{"mod.sc4lot", true},
		{`Deps\BSC_Textures.dat`, true},
		{"Deps", false},
		{"Other.dat", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cat.HasFile(tt.name); got != tt.want {
				t.Errorf("HasFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCatalog_HasTGI(t *testing.T) {
	t.Parallel()

	a := tgi.New(0x6534284A, 0xA8FBD372, 0x00000001)
	b := tgi.New(0x05342861, 0x00000000, 0x12345678)
	cat := New("/p", nil, nil, []tgi.TGI{a, b}, true)

	if !tgi.IsSorted(cat.TGIs) {
		t.Error("catalog TGIs are not sorted")
	}
	if !cat.HasTGI(a) || !cat.HasTGI(b) {
		t.Error("HasTGI() = false for an indexed TGI")
	}
	if cat.HasTGI(tgi.New(1, 2, 3)) {
		t.Error("HasTGI() = true for an unknown TGI")
	}
}
