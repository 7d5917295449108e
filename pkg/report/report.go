// Package report renders policy collections as a fixed-format text report.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/policyops/cyberark-policies/pkg/policies"
)

const borderWidth = 60

func border() string {
	return strings.Repeat("=", borderWidth)
}

// Section writes one bordered collection section. Records are printed in the
// order given; no re-sorting.
func Section(w io.Writer, title, host string, records []policies.Record) {
	fmt.Fprintf(w, "\n%s\n", border())
	fmt.Fprintf(w, "%s (%s)\n", title, host)
	fmt.Fprintln(w, border())
	for _, r := range records {
		fmt.Fprintf(w, "\n  Name:        %s\n", r.Name)
		fmt.Fprintf(w, "  Description: %s\n", r.Description)
		fmt.Fprintf(w, "  Status:      %s\n", r.Status)
		fmt.Fprintf(w, "  Policy ID:   %s\n", r.PolicyID)
	}
}

// Summary writes the combined total line. Totals are the declared counts from
// the collections, never recomputed from list lengths.
func Summary(w io.Writer, scaTotal, siaTotal int) {
	fmt.Fprintf(w, "\n%s\n", border())
	fmt.Fprintf(w, "TOTAL: %d SCA + %d SIA = %d policies\n", scaTotal, siaTotal, scaTotal+siaTotal)
	fmt.Fprintln(w, border())
}

// Render writes the full report: the SCA section, the SIA section, then the
// summary. Nil collections render as empty sections contributing zero.
func Render(w io.Writer, sca *policies.SCACollection, sia *policies.SIACollection) {
	var scaRecords, siaRecords []policies.Record
	var scaTotal, siaTotal int
	if sca != nil {
		scaRecords = sca.Records()
		scaTotal = sca.Total
	}
	if sia != nil {
		siaRecords = sia.Records()
		siaTotal = sia.Total
	}

	Section(w, "SCA POLICIES", policies.SCA.Host(), scaRecords)
	Section(w, "SIA POLICIES", policies.SIA.Host(), siaRecords)
	Summary(w, scaTotal, siaTotal)
}
