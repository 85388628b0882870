package risk

import (
	"fmt"
	"math"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

// Assess turns structured findings into a scored report. Deterministic
// additive model: every contributing weight lives in internal/config and is
// independently testable. Zero applicable conditions is a valid Low report,
// not an error.
func Assess(findings docModel.StructuredFindings) docModel.RiskReport {
	score := 0.0
	out := []docModel.RiskFinding{}

	apply := func(code docModel.Code, weight float64, title string, source string) {
		score += weight
		out = append(out, docModel.RiskFinding{
			Code:     code,
			Severity: severityFor(weight),
			Title:    title,
			Source:   source,
		})
	}

	// Flood zone grades are mutually exclusive: only the single highest
	// matched grade contributes.
	switch findings.Highways.FloodZone.Grade {
	case docModel.FloodZone3:
		apply(docModel.CodeFloodZone3, config.WeightFloodZone3, "Environment Agency Flood Zone 3 indicated.", "con29.flood_zone")
	case docModel.FloodZone2:
		apply(docModel.CodeFloodZone2, config.WeightFloodZone2, "Environment Agency Flood Zone 2 indicated.", "con29.flood_zone")
	case docModel.SurfaceWater:
		apply(docModel.CodeSurfaceWater, config.WeightSurfaceWater, "Surface water flood screening mention.", "con29.flood_zone")
	}

	if findings.LandCharge.TPO.IsPresent() {
		apply(docModel.CodeTPO, config.WeightTPO, "Tree Preservation Order present.", "llc1.tpo")
	}
	if findings.LandCharge.ConservationArea.IsPresent() {
		apply(docModel.CodeConservationArea, config.WeightConservationArea, "Conservation Area constraints apply.", "llc1.conservation_area")
	}
	if findings.LandCharge.S106.IsPresent() {
		apply(docModel.CodeS106, config.WeightS106, "Section 106 obligations present.", "llc1.s106")
	}
	if findings.LandCharge.CIL.IsPresent() {
		apply(docModel.CodeCIL, config.WeightCIL, "Community Infrastructure Levy (CIL) may apply.", "llc1.cil")
	}

	score = math.Round(score*100) / 100
	score = math.Max(0.0, math.Min(1.0, score))

	// Advisory, carries no weight: the lease itself is a title fact, not a
	// search designation, but lenders care.
	if years := findings.Title.LeaseTermYears; years != nil && *years < config.ShortLeaseYears {
		out = append(out, docModel.RiskFinding{
			Code:     docModel.CodeShortLease,
			Severity: docModel.SeverityMedium,
			Title:    fmt.Sprintf("Short lease: ~%d years. Lender may not accept without extension.", *years),
			Source:   "title_register.lease_term_years",
		})
	}

	return docModel.RiskReport{
		Score:      score,
		Summary:    bandFor(score),
		Findings:   out,
		Confidence: confidenceMap(findings),
		Checklist:  checklist(findings),
	}
}

func bandFor(score float64) docModel.SummaryBand {
	switch {
	case score >= config.BandHigh:
		return docModel.BandHigh
	case score >= config.BandElevated:
		return docModel.BandElevated
	case score >= config.BandModerate:
		return docModel.BandModerate
	default:
		return docModel.BandLow
	}
}

// severityFor buckets a finding by the band its own weight falls into, not
// by the running total at the time it was applied.
func severityFor(weight float64) docModel.Severity {
	switch bandFor(weight) {
	case docModel.BandHigh, docModel.BandElevated:
		return docModel.SeverityHigh
	case docModel.BandModerate:
		return docModel.SeverityMedium
	default:
		return docModel.SeverityLow
	}
}

// confidenceMap mirrors the most safety-relevant leaves. Undetermined leaves
// report low, never absent keys.
func confidenceMap(findings docModel.StructuredFindings) map[string]docModel.Confidence {
	conf := map[string]docModel.Confidence{
		"flood_zone":  docModel.ConfidenceLow,
		"road_status": docModel.ConfidenceLow,
	}
	if findings.Highways.FloodZone.Determined() && findings.Highways.FloodZone.Confidence != "" {
		conf["flood_zone"] = findings.Highways.FloodZone.Confidence
	}
	if findings.Highways.RoadStatus.Determined() && findings.Highways.RoadStatus.Confidence != "" {
		conf["road_status"] = findings.Highways.RoadStatus.Confidence
	}
	return conf
}

func checklist(findings docModel.StructuredFindings) []string {
	var needs []string
	if findings.LandCharge.S106.IsPresent() {
		needs = append(needs, "Section 106 agreement - obligations/charges.")
	}
	if findings.LandCharge.TPO.IsPresent() {
		needs = append(needs, "Tree Preservation - check works consents.")
	}
	if findings.Highways.FloodZone.Grade == docModel.FloodZone3 {
		needs = append(needs, "Potential flood exposure - insurer/lender may require conditions.")
	}
	return needs
}
