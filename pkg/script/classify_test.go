// SPDX-License-Identifier: MPL-2.0

package script

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want Kind
	}{
		{name: "empty", line: "", want: KindScriptComment},
		{name: "semicolon comment", line: "; written by somebody", want: KindScriptComment},
		{name: "comment containing url", line: ";see http://example.com", want: KindScriptComment},
		{name: "user comment", line: ">Remove old versions", want: KindUserComment},
		{name: "user comment with hash later", line: "> step #1", want: KindUserComment},
		{name: "heading", line: ">#Cleanup", want: KindUserCommentHeading},
		{name: "bare marker", line: ">", want: KindUserComment},
		{name: "dependency", line: "SomeMod.dat; http://example.com/mod", want: KindDependency},
		{name: "dependency upper-case url", line: "SomeMod.dat; HTTPS://EXAMPLE.COM", want: KindDependency},
		{name: "conditional", line: "Foo.dat ?? Bar.dat; http://x", want: KindConditionalDependency},
		{name: "legacy semicolon dependency", line: "Foo.dat; Some Pack", want: KindDependency},
		{name: "removal glob", line: "*.bak", want: KindRemoval},
		{name: "removal name", line: "OldLot.SC4Lot", want: KindRemoval},
		{name: "leading semicolon wins over url", line: ";http://x", want: KindScriptComment},
		{name: "marker wins over url", line: ">http://x", want: KindUserComment},
		{name: "windows-1252 dependency", line: "Caf\xe9.dat; Caf\xe9 HTTP://x", want: KindDependency},
		{name: "windows-1252 removal", line: "Caf\xe9*.dat", want: KindRemoval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.line); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	lines := []string{
		"", ";x", ">y", ">#z", "*.bak",
		"A.dat; http://a", "A.dat ?? B.dat; http://b", "Legacy; thing",
	}
	for _, line := range lines {
		first := Parse(line)
		second := Parse(line)
		if first.Kind != second.Kind || first.Text != second.Text {
			t.Errorf("Parse(%q) not deterministic: %+v vs %+v", line, first, second)
		}
		if (first.Dependency == nil) != (second.Dependency == nil) {
			t.Fatalf("Parse(%q) dependency presence differs", line)
		}
		if first.Dependency != nil && *first.Dependency != *second.Dependency {
			t.Errorf("Parse(%q) dependency differs: %+v vs %+v", line, *first.Dependency, *second.Dependency)
		}
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if got := KindConditionalDependency.String(); got != "conditional-dependency" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("String() = %q", got)
	}
	if !KindDependency.IsDependency() || KindRemoval.IsDependency() {
		t.Error("IsDependency() mismatch")
	}
}
