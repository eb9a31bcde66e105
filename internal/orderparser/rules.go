// =============================================================================
// EDITHOR - Line Classification Rules
// =============================================================================
//
// This file holds the per-line rules of the order parser. Each header field
// has a small extractor with the same shape, line -> (value, ok), so a rule
// can be tested or replaced without touching the segmenter.
//
// CLASSIFICATION ORDER (first match wins, evaluated on the trimmed line):
//   1. "Commande n°"                   order boundary (also sets the number)
//   2. "Fournisseur"                   supplier
//   3. "Document"                      order date
//   4. "Livraison le"                  delivery date
//   5. contains "BAK FRANCE"           client name
//   6. "Lieu dit"                      address (whole line)
//   7. "Poids total brut produits"     total gross weight
//   8. "Montant total ht commande"     total amount excl. tax
//   9. "<digits> <digits>..."          line item
//  10. "Récapitulatif"                 end of the order section
//
// =============================================================================

package orderparser

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/edithor/internal/types"
)

// =============================================================================
// MARKERS
// =============================================================================

const (
	markerOrder        = "Commande n°"
	markerSupplier     = "Fournisseur"
	markerOrderDate    = "Document"
	markerDeliveryDate = "Livraison le"
	markerClient       = "BAK FRANCE"
	markerAddress      = "Lieu dit"
	markerTotalWeight  = "Poids total brut produits"
	markerTotalAmount  = "Montant total ht commande"
	markerSummary      = "Récapitulatif"

	// minLineItemTokens is the smallest token count a line item can have:
	// two leading codes, the identifier, and the three trailing columns.
	minLineItemTokens = 6
)

// lineItemPattern matches lines starting with two space-separated numbers.
var lineItemPattern = regexp.MustCompile(`^\d+ \d+`)

// =============================================================================
// LINE KINDS
// =============================================================================

// Kind is the classification of a single line.
type Kind int

const (
	KindOther Kind = iota
	KindOrderStart
	KindSupplier
	KindOrderDate
	KindDeliveryDate
	KindClient
	KindAddress
	KindTotalWeight
	KindTotalAmount
	KindLineItem
	KindSummary
)

var kindNames = map[Kind]string{
	KindOther:        "other",
	KindOrderStart:   "order-start",
	KindSupplier:     "supplier",
	KindOrderDate:    "order-date",
	KindDeliveryDate: "delivery-date",
	KindClient:       "client",
	KindAddress:      "address",
	KindTotalWeight:  "total-weight",
	KindTotalAmount:  "total-amount",
	KindLineItem:     "line-item",
	KindSummary:      "summary",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify returns the kind of a trimmed line. The checks run in the fixed
// priority order documented at the top of this file.
func Classify(line string) Kind {
	switch {
	case strings.HasPrefix(line, markerOrder):
		return KindOrderStart
	case strings.HasPrefix(line, markerSupplier):
		return KindSupplier
	case strings.HasPrefix(line, markerOrderDate):
		return KindOrderDate
	case strings.HasPrefix(line, markerDeliveryDate):
		return KindDeliveryDate
	case strings.Contains(line, markerClient):
		return KindClient
	case strings.HasPrefix(line, markerAddress):
		return KindAddress
	case strings.HasPrefix(line, markerTotalWeight):
		return KindTotalWeight
	case strings.HasPrefix(line, markerTotalAmount):
		return KindTotalAmount
	case lineItemPattern.MatchString(line):
		return KindLineItem
	case strings.HasPrefix(line, markerSummary):
		return KindSummary
	default:
		return KindOther
	}
}

// =============================================================================
// FIELD EXTRACTORS
// =============================================================================

// Extractor reads one header field from a line. ok is false when the line
// carries no value for the field; that is an expected outcome, not an error.
type Extractor func(line string) (value string, ok bool)

// fieldRule binds an extractor to the Order field it fills.
type fieldRule struct {
	extract Extractor
	assign  func(o *types.Order, value string)
}

var fieldRules = map[Kind]fieldRule{
	KindOrderStart: {
		extract: ExtractOrderNumber,
		assign:  func(o *types.Order, v string) { o.Number = v },
	},
	KindSupplier: {
		extract: afterSeparator(markerSupplier),
		assign:  func(o *types.Order, v string) { o.Supplier = v },
	},
	KindOrderDate: {
		extract: afterSeparator(markerOrderDate),
		assign:  func(o *types.Order, v string) { o.OrderDate = v },
	},
	KindDeliveryDate: {
		extract: afterSeparator(markerDeliveryDate),
		assign:  func(o *types.Order, v string) { o.DeliveryDate = v },
	},
	KindClient: {
		extract: ExtractClientName,
		assign:  func(o *types.Order, v string) { o.ClientName = v },
	},
	KindAddress: {
		extract: ExtractAddress,
		assign:  func(o *types.Order, v string) { o.Address = v },
	},
	KindTotalWeight: {
		extract: afterSeparator(markerTotalWeight),
		assign:  func(o *types.Order, v string) { o.TotalWeight = v },
	},
	KindTotalAmount: {
		extract: afterSeparator(markerTotalAmount),
		assign:  func(o *types.Order, v string) { o.TotalAmount = v },
	},
}

// ExtractOrderNumber returns the text following "Commande n°".
func ExtractOrderNumber(line string) (string, bool) {
	rest, found := strings.CutPrefix(line, markerOrder)
	if !found {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ExtractClientName returns the text following "BAK FRANCE". The supplier
// suffix is kept; it is stripped when the order is projected.
func ExtractClientName(line string) (string, bool) {
	_, rest, found := strings.Cut(line, markerClient)
	if !found {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ExtractAddress returns the whole "Lieu dit" line.
func ExtractAddress(line string) (string, bool) {
	if !strings.HasPrefix(line, markerAddress) {
		return "", false
	}
	return line, true
}

// afterSeparator builds an extractor for "<marker> ... : value" lines.
// The line is split once on the first ':'. Without a ':' the value is
// whatever follows the marker word.
func afterSeparator(marker string) Extractor {
	return func(line string) (string, bool) {
		if !strings.HasPrefix(line, marker) {
			return "", false
		}
		if _, value, found := strings.Cut(line, ":"); found {
			return strings.TrimSpace(value), true
		}
		return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
	}
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// ParseLineItem builds a LineItem from a line-item line.
//
// Tokens are split on runs of whitespace. The identifier is the third token,
// passed through the corrector; the last three tokens are quantity,
// packaging units and a trailing column that is not kept. Everything between
// the identifier and the quantity is the description. Lines with fewer than
// six tokens yield nothing.
func ParseLineItem(line string, corrector Corrector) (types.LineItem, bool) {
	tokens := strings.Fields(line)
	n := len(tokens)
	if n < minLineItemTokens {
		return types.LineItem{}, false
	}

	return types.LineItem{
		Identifier:     correct(corrector, tokens[2]),
		Description:    strings.Join(tokens[3:n-3], " "),
		Quantity:       tokens[n-3],
		PackagingUnits: tokens[n-2],
	}, true
}
