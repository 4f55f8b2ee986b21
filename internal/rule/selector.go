// Package rule implements the MapCSS-like selector/rule/stylesheet cascade:
// eleven selector variants forming singly-linked chains terminating in an
// apply-selector, gated by zoom and feature kind at the rule level.
package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tobilg/maptile-engine/internal/store"
	"github.com/tobilg/maptile-engine/internal/style"
	"github.com/tobilg/maptile-engine/internal/tileid"
)

// ErrInvalidRegex is returned when a tag-matches selector's pattern fails
// to compile.
var ErrInvalidRegex = errors.New("rule: invalid regex")

// Kind enumerates the eleven selector variants, dispatched on at match
// time rather than through per-variant virtual methods — a tagged union
// instead of the source engine's Selector base class hierarchy.
type Kind int

const (
	KindLine Kind = iota
	KindArea
	KindChildNodes
	KindChildWays
	KindHasTag
	KindHasNotTag
	KindTagEquals
	KindTagUnequals
	KindTagMatches
	KindTagLess
	KindTagLessEq
	KindTagGreater
	KindTagGreaterEq
	KindApply
)

const areaTagKey = "area"

// Selector is one node in a selector chain. Its fields are a superset
// covering every variant; only the fields relevant to Kind are populated.
type Selector struct {
	Kind Kind
	Next *Selector

	Key       string
	Value     string
	Regex     *regexp.Regexp
	Threshold int

	// Rule is the owning rule, reached only by an apply-selector to fetch
	// its StyleTemplate. Go's garbage collector handles the resulting
	// reference cycle (rule -> head -> ... -> apply -> rule) without the
	// weak_ptr the source engine needed for the same relationship.
	Rule *Rule
}

// NewLineSelector forwards a way iff it is open, or its area tag is "no".
func NewLineSelector(next *Selector) *Selector { return &Selector{Kind: KindLine, Next: next} }

// NewAreaSelector forwards a way iff it is closed and its area tag is
// unset or "yes".
func NewAreaSelector(next *Selector) *Selector { return &Selector{Kind: KindArea, Next: next} }

// NewChildNodesSelector fans out to next.MatchNode for every node a way or
// relation references.
func NewChildNodesSelector(next *Selector) *Selector {
	return &Selector{Kind: KindChildNodes, Next: next}
}

// NewChildWaysSelector fans out to next.MatchWay for every way a relation
// references.
func NewChildWaysSelector(next *Selector) *Selector {
	return &Selector{Kind: KindChildWays, Next: next}
}

// NewHasTagSelector forwards iff the feature has a tag named key.
func NewHasTagSelector(key string, next *Selector) *Selector {
	return &Selector{Kind: KindHasTag, Key: key, Next: next}
}

// NewHasNotTagSelector forwards iff the feature has no tag named key
// (strict absence — see the note on Stylesheet in stylesheet.go about the
// documented-vs-implemented discrepancy this preserves).
func NewHasNotTagSelector(key string, next *Selector) *Selector {
	return &Selector{Kind: KindHasNotTag, Key: key, Next: next}
}

// NewTagEqualsSelector forwards iff the feature has tag key with value
// exactly value.
func NewTagEqualsSelector(key, value string, next *Selector) *Selector {
	return &Selector{Kind: KindTagEquals, Key: key, Value: value, Next: next}
}

// NewTagUnequalsSelector forwards iff the feature has tag key present and
// its value differs from value. It does not forward when the tag is
// absent.
func NewTagUnequalsSelector(key, value string, next *Selector) *Selector {
	return &Selector{Kind: KindTagUnequals, Key: key, Value: value, Next: next}
}

// NewTagMatchesSelector forwards iff the feature has tag key and its
// value matches the compiled regex pattern.
func NewTagMatchesSelector(key, pattern string, next *Selector) (*Selector, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("rule: compiling tag-matches pattern %q: %v: %w", pattern, err, ErrInvalidRegex)
	}
	return &Selector{Kind: KindTagMatches, Key: key, Regex: re, Next: next}, nil
}

// NewTagCompareSelector builds a tag-less/less-eq/greater/greater-eq
// selector. kind must be one of KindTagLess, KindTagLessEq,
// KindTagGreater, KindTagGreaterEq.
func NewTagCompareSelector(kind Kind, key string, threshold int, next *Selector) *Selector {
	return &Selector{Kind: kind, Key: key, Threshold: threshold, Next: next}
}

// NewApplySelector builds the terminal selector for rule. It must be the
// last selector in any chain rule.Head points into.
func NewApplySelector(owner *Rule) *Selector {
	return &Selector{Kind: KindApply, Rule: owner}
}

// evalTagPredicate evaluates the tag-keyed predicate kinds against tags.
// Structural kinds (line/area/child-*/apply) are handled directly in
// MatchNode/MatchWay/MatchRelation, not here.
func evalTagPredicate(kind Kind, tags map[string]string, key, value string, re *regexp.Regexp, threshold int) bool {
	switch kind {
	case KindHasTag:
		_, ok := tags[key]
		return ok
	case KindHasNotTag:
		_, ok := tags[key]
		return !ok
	case KindTagEquals:
		v, ok := tags[key]
		return ok && v == value
	case KindTagUnequals:
		v, ok := tags[key]
		return ok && v != value
	case KindTagMatches:
		v, ok := tags[key]
		return ok && re.MatchString(v)
	case KindTagLess, KindTagLessEq, KindTagGreater, KindTagGreaterEq:
		v, ok := tags[key]
		if !ok {
			return false
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		switch kind {
		case KindTagLess:
			return n < threshold
		case KindTagLessEq:
			return n <= threshold
		case KindTagGreater:
			return n > threshold
		default: // KindTagGreaterEq
			return n >= threshold
		}
	default:
		return false
	}
}

func isTagPredicateKind(kind Kind) bool {
	switch kind {
	case KindHasTag, KindHasNotTag, KindTagEquals, KindTagUnequals, KindTagMatches,
		KindTagLess, KindTagLessEq, KindTagGreater, KindTagGreaterEq:
		return true
	default:
		return false
	}
}

// MatchNode evaluates s against node id.
func (s *Selector) MatchNode(g *store.Geodata, id store.NodeId, tile tileid.TileID, attrs *style.RenderAttributes) {
	node, ok := g.GetNode(id)
	if !ok {
		return
	}

	switch {
	case s.Kind == KindApply:
		st := attrs.EnsureNode(id)
		st.Overmerge(s.Rule.Template, node.Tags)
	case isTagPredicateKind(s.Kind):
		if evalTagPredicate(s.Kind, node.Tags, s.Key, s.Value, s.Regex, s.Threshold) && s.Next != nil {
			s.Next.MatchNode(g, id, tile, attrs)
		}
	default:
		// line/area/child-nodes/child-ways don't apply to a bare node.
	}
}

// MatchWay evaluates s against way id.
func (s *Selector) MatchWay(g *store.Geodata, id store.WayId, tile tileid.TileID, attrs *style.RenderAttributes) {
	way, ok := g.GetWay(id)
	if !ok {
		return
	}

	switch {
	case s.Kind == KindApply:
		st := attrs.EnsureWay(id)
		st.Overmerge(s.Rule.Template, way.Tags)
	case s.Kind == KindLine:
		areaVal, hasArea := way.Tags[areaTagKey]
		if !way.IsClosed() || (hasArea && areaVal == "no") {
			if s.Next != nil {
				s.Next.MatchWay(g, id, tile, attrs)
			}
		}
	case s.Kind == KindArea:
		areaVal, hasArea := way.Tags[areaTagKey]
		if way.IsClosed() && (!hasArea || areaVal == "yes") {
			if s.Next != nil {
				s.Next.MatchWay(g, id, tile, attrs)
			}
		}
	case s.Kind == KindChildNodes:
		if s.Next == nil {
			return
		}
		for _, nid := range way.NodeIDs {
			s.Next.MatchNode(g, nid, tile, attrs)
		}
	case isTagPredicateKind(s.Kind):
		if evalTagPredicate(s.Kind, way.Tags, s.Key, s.Value, s.Regex, s.Threshold) && s.Next != nil {
			s.Next.MatchWay(g, id, tile, attrs)
		}
	default:
		// child-ways doesn't apply to a bare way.
	}
}

// MatchRelation evaluates s against relation id. An apply-selector only
// writes a style for multipolygon relations — every other relation kind
// is indexed but never styled, per the data model.
func (s *Selector) MatchRelation(g *store.Geodata, id store.RelId, tile tileid.TileID, attrs *style.RenderAttributes) {
	rel, ok := g.GetRelation(id)
	if !ok {
		return
	}

	switch {
	case s.Kind == KindApply:
		if !rel.IsMultipolygon() {
			return
		}
		st := attrs.EnsureRelation(id)
		st.Overmerge(s.Rule.Template, rel.Tags)
	case s.Kind == KindChildNodes:
		if s.Next == nil {
			return
		}
		for _, nid := range rel.NodeIDs {
			s.Next.MatchNode(g, nid, tile, attrs)
		}
	case s.Kind == KindChildWays:
		if s.Next == nil {
			return
		}
		for _, wid := range rel.WayIDs {
			s.Next.MatchWay(g, wid, tile, attrs)
		}
	case isTagPredicateKind(s.Kind):
		if evalTagPredicate(s.Kind, rel.Tags, s.Key, s.Value, s.Regex, s.Threshold) && s.Next != nil {
			s.Next.MatchRelation(g, id, tile, attrs)
		}
	default:
		// line/area don't apply to a relation.
	}
}
