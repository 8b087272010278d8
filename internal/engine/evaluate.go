// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sc4cleanitol/cleanitol/pkg/script"
	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

// lookup is the outcome of searching the catalog for one item.
type lookup int

const (
	lookupAbsent lookup = iota
	lookupPresent
	// lookupUnresolved means the item is a TGI and no index was built.
	lookupUnresolved
)

// Evaluate returns the runs for one rule and updates the session counters
// and removal list.
func (s *Session) Evaluate(rule script.Rule) []FormattedRun {
	switch rule.Kind {
	case script.KindScriptComment:
		return nil
	case script.KindUserComment:
		return []FormattedRun{Styled(strings.TrimPrefix(rule.Text, ">")+"\n", StyleGreenStd)}
	case script.KindUserCommentHeading:
		return []FormattedRun{Styled("\n"+strings.TrimPrefix(rule.Text, ">#")+"\n", StyleBlackHeading)}
	case script.KindRemoval:
		return s.evaluateRemoval(rule.Text)
	case script.KindDependency, script.KindConditionalDependency:
		dep := rule.Dependency
		if dep == nil {
			parsed := script.ParseDependency(rule.Text)
			dep = &parsed
		}
		return s.evaluateDependency(*dep)
	default:
		panic(fmt.Sprintf("engine: unhandled rule kind %v", rule.Kind))
	}
}

// EvaluateLine classifies and evaluates one raw script line.
func (s *Session) EvaluateLine(line string) []FormattedRun {
	return s.Evaluate(script.Parse(line))
}

func (s *Session) evaluateRemoval(pattern string) []FormattedRun {
	matches := s.matcher.Match(pattern)
	if len(matches) == 0 {
		if !s.verbose {
			return nil
		}
		return []FormattedRun{
			Styled(pattern, StyleBlueStd),
			Text(" not present.\n"),
		}
	}

	runs := make([]FormattedRun, 0, 4*len(matches))
	for _, path := range matches {
		runs = append(runs,
			Styled(pattern, StyleBlueStd),
			Styled(" ("+filepath.Base(path)+")", StyleBlueMono),
			Text(" found in "),
			Styled(filepath.Dir(path)+"\n", StyleRedStd),
		)
		if _, ok := s.listed[path]; ok {
			continue
		}
		s.listed[path] = struct{}{}
		s.removals = append(s.removals, path)
		s.counters.Removals++
	}
	return runs
}

func (s *Session) evaluateDependency(dep script.DependencyRule) []FormattedRun {
	s.counters.Scanned++

	if dep.Unchecked {
		s.counters.Unchecked++
		return []FormattedRun{
			Styled("[Unchecked dependency]:", StyleBlueStd),
			Styled(" "+dep.SearchItem, StyleRedStd),
			Text(". Download from: "),
			Link(dep.LinkText(), dep.SourceURL),
			Text("\n"),
		}
	}

	if dep.IsConditional() {
		switch s.find(dep.ConditionalItem, dep.IsConditionalItemTGI) {
		case lookupUnresolved:
			return s.unresolved(dep, dep.ConditionalItem)
		case lookupAbsent:
			s.counters.Skipped++
			if !s.verbose {
				return nil
			}
			return []FormattedRun{
				Styled(dep.SearchItem, StyleBlueStd),
				Text(" was skipped as "),
				Styled(dep.ConditionalItem, StyleBlueStd),
				Text(" was not found. Item: "),
				Link(dep.LinkText(), dep.SourceURL),
				Text("\n"),
			}
		case lookupPresent:
		}
	}

	switch s.find(dep.SearchItem, dep.IsSearchItemTGI) {
	case lookupUnresolved:
		return s.unresolved(dep, dep.SearchItem)
	case lookupPresent:
		s.counters.Found++
		if !s.verbose {
			return nil
		}
		return []FormattedRun{
			Styled(dep.SearchItem, StyleBlueStd),
			Text(" was found.\n"),
		}
	default:
		s.counters.Missing++
		return []FormattedRun{
			Styled("Missing: ", StyleRedMono),
			Styled(dep.SearchItem, StyleRedStd),
			Text(" is missing. Download from: "),
			Link(dep.LinkText(), dep.SourceURL),
			Text("\n"),
		}
	}
}

// unresolved reports a TGI rule that cannot be checked because the catalog
// carries no TGI index for this run.
func (s *Session) unresolved(dep script.DependencyRule, item string) []FormattedRun {
	s.counters.Unresolved++
	return []FormattedRun{
		Styled("[Unresolved TGI]: ", StyleRedMono),
		Styled(item, StyleRedStd),
		Text(" could not be checked because the TGI index was not rebuilt. Item: "),
		Link(dep.LinkText(), dep.SourceURL),
		Text("\n"),
	}
}

// find looks item up in the catalog's TGI index or file names.
func (s *Session) find(item string, isTGI bool) lookup {
	if !isTGI {
		if s.catalog.HasFile(item) {
			return lookupPresent
		}
		return lookupAbsent
	}
	if !s.catalog.Indexed {
		return lookupUnresolved
	}
	id, err := tgi.Parse(item)
	if err != nil {
		return lookupAbsent
	}
	if s.catalog.HasTGI(id) {
		return lookupPresent
	}
	return lookupAbsent
}
