// =============================================================================
// EDITHOR - Shared Types
// =============================================================================
//
// This package contains the plain data records passed between the stages of
// the pipeline. Types defined here are used by:
//   - orderparser  (produces Orders)
//   - xlsxwriter   (projects Orders onto the template)
//   - converter    (drives both)
//
// All fields are kept as the raw strings printed in the source document.
//
// =============================================================================

package types

// =============================================================================
// ORDER TYPES
// =============================================================================

// Order represents one purchase order extracted from a document.
type Order struct {
	// Number is the text following the "Commande n°" marker.
	Number string

	// Supplier is the value of the "Fournisseur" line.
	Supplier string

	// OrderDate is the value of the "Document" line, as printed.
	OrderDate string

	// DeliveryDate is the value of the "Livraison le" line, as printed.
	DeliveryDate string

	// ClientName is the text following "BAK FRANCE". It still carries the
	// supplier suffix; consumers truncate it at "BAK".
	ClientName string

	// Address is the whole "Lieu dit" line.
	Address string

	// TotalWeight is the value of the "Poids total brut produits" line.
	TotalWeight string

	// TotalAmount is the value of the "Montant total ht commande" line.
	TotalAmount string

	// Items contains the line items in order of appearance.
	Items []LineItem
}

// HasItems reports whether the order carries at least one line item.
func (o Order) HasItems() bool {
	return len(o.Items) > 0
}

// LineItem represents a single product row within an order.
type LineItem struct {
	// Identifier is the product code (EAN) after correction.
	Identifier string

	// Description is the free text between the identifier and the quantities.
	Description string

	// Quantity is the ordered quantity token, as printed.
	Quantity string

	// PackagingUnits is the packaging unit count (PCB) token, as printed.
	PackagingUnits string
}
