// SPDX-License-Identifier: MPL-2.0

package script

import "fmt"

// Kind is the action a script line asks for.
type Kind int

const (
	// KindScriptComment is an internal comment that is never shown.
	KindScriptComment Kind = iota
	// KindUserComment is narrative text shown to the user.
	KindUserComment
	// KindUserCommentHeading is a heading shown to the user.
	KindUserCommentHeading
	// KindRemoval is a file pattern that should be removed from plugins.
	KindRemoval
	// KindDependency is an item that must be present.
	KindDependency
	// KindConditionalDependency is an item that must be present only when
	// another item is present.
	KindConditionalDependency
)

var kindNames = [...]string{
	KindScriptComment:         "script-comment",
	KindUserComment:           "user-comment",
	KindUserCommentHeading:    "user-comment-heading",
	KindRemoval:               "removal",
	KindDependency:            "dependency",
	KindConditionalDependency: "conditional-dependency",
}

// String returns the kebab-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsDependency reports whether the kind carries a DependencyRule.
func (k Kind) IsDependency() bool {
	return k == KindDependency || k == KindConditionalDependency
}
