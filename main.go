// =============================================================================
// EDITHOR - Main Entry Point
// =============================================================================
//
// USAGE:
//   edithor process       - Convert purchase-order PDFs to spreadsheets
//   edithor corrections   - Manage the product identifier correction table
//   edithor settings      - Show or change the template and output directory
//   edithor clean         - Empty the output directory
//   edithor version       - Display the application version
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/edithor/cmd"
)

func main() {
	cmd.Execute()
}
