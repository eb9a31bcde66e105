// =============================================================================
// EDITHOR - Order Parser
// =============================================================================
//
// This module turns the extracted text of a purchase-order PDF into Orders.
// It is a fold over the document's lines: every line is classified (see
// rules.go) and applied to a State value that carries the completed orders,
// the order being built, its pending line items and the "inside order" flag.
//
// The fold is pure: ParsePage takes a State and returns a new one, and never
// performs I/O. Pages must be folded in document order because an order may
// span a page boundary.
//
// FINALIZATION:
//   An order is appended to the result when
//     - the next "Commande n°" marker is seen,
//     - a "Récapitulatif" marker is seen, or
//     - the stream ends.
//   Only the end-of-stream path requires the order to have line items. The two
//   mid-stream paths append the order even when it has none; the projector
//   skips such orders.
//
// =============================================================================

package orderparser

import (
	"iter"
	"slices"
	"strings"

	"github.com/ginjaninja78/edithor/internal/types"
)

// Corrector maps a raw product identifier to its corrected value.
// *corrections.Table satisfies it.
type Corrector interface {
	Lookup(raw string) string
}

func correct(c Corrector, raw string) string {
	if c == nil {
		return raw
	}
	return c.Lookup(raw)
}

// =============================================================================
// FOLD STATE
// =============================================================================

// State is the parser state threaded through the pages of one document.
// The zero value is the initial state.
type State struct {
	// Orders holds the orders finalized so far, in document order.
	Orders []types.Order

	// Current is the order being built, or nil outside an order.
	Current *types.Order

	// Items holds the line items collected for Current.
	Items []types.LineItem

	// Inside is true between an order marker and the next summary marker.
	Inside bool
}

// clone returns a copy of s that shares no mutable memory with it.
func (s State) clone() State {
	out := State{
		Orders: slices.Clone(s.Orders),
		Items:  slices.Clone(s.Items),
		Inside: s.Inside,
	}
	if s.Current != nil {
		current := *s.Current
		out.Current = &current
	}
	return out
}

// finalize attaches the pending items to the current order and appends it.
func (s *State) finalize() {
	if s.Current == nil {
		return
	}
	s.Current.Items = s.Items
	s.Orders = append(s.Orders, *s.Current)
	s.Items = nil
}

// =============================================================================
// PARSER
// =============================================================================

// Parser folds page texts into orders using a correction table for product
// identifiers. A Parser holds no per-document state and may be shared.
type Parser struct {
	corrector Corrector
}

// New returns a Parser. A nil corrector leaves identifiers unchanged.
func New(corrector Corrector) *Parser {
	return &Parser{corrector: corrector}
}

// ParsePage applies every line of one page to state and returns the result.
// The input state is not modified.
func (p *Parser) ParsePage(state State, text string) State {
	next := state.clone()
	for _, raw := range strings.Split(text, "\n") {
		next = p.ParseLine(next, raw)
	}
	return next
}

// ParseLine applies a single line to state. The caller's Orders and Items
// slices may be appended to; use ParsePage for a copy-on-entry fold.
func (p *Parser) ParseLine(state State, raw string) State {
	line := strings.TrimSpace(raw)
	kind := Classify(line)

	if kind == KindOrderStart {
		state.Inside = true
		state.finalize()
		state.Current = &types.Order{}
	}

	if !state.Inside || state.Current == nil {
		return state
	}

	switch kind {
	case KindLineItem:
		if item, ok := ParseLineItem(line, p.corrector); ok {
			state.Items = append(state.Items, item)
		}
	case KindSummary:
		state.Inside = false
		state.finalize()
		state.Current = nil
	case KindOther:
	default:
		if rule, ok := fieldRules[kind]; ok {
			if value, ok := rule.extract(line); ok {
				rule.assign(state.Current, value)
			}
		}
	}
	return state
}

// Finish closes the fold and returns the orders. A trailing order is kept
// only if it has line items.
func (p *Parser) Finish(state State) []types.Order {
	out := state.clone()
	if out.Current != nil && len(out.Items) > 0 {
		out.finalize()
	}
	return out.Orders
}

// ParseDocument folds every page of a document, starting from a fresh state.
func (p *Parser) ParseDocument(pages iter.Seq[string]) []types.Order {
	var state State
	for text := range pages {
		if text == "" {
			continue
		}
		state = p.ParsePage(state, text)
	}
	return p.Finish(state)
}

// ParseText parses a document given as one block of text.
func (p *Parser) ParseText(text string) []types.Order {
	return p.ParseDocument(slices.Values([]string{text}))
}
