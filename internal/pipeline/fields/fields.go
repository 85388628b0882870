package fields

import (
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

// Extract applies the rule catalogue to plain text. It is a pure function of
// its inputs: no state, no clock, no network. A kind hint narrows the
// batteries applied; unknown runs everything, since a mis-filed scan is more
// common than a mislabeled one.
func Extract(text string, hint docModel.DocumentKind) docModel.StructuredFindings {
	findings := docModel.StructuredFindings{RawLength: len(text)}
	if text == "" {
		return findings
	}

	applyProperty(text, &findings)

	switch hint {
	case docModel.KindLandCharge:
		applyLandCharge(text, &findings)
	case docModel.KindHighwaysReport:
		applyHighways(text, &findings)
		applyDrainage(text, &findings)
	case docModel.KindTitleRegister:
		applyTitle(text, &findings)
	default:
		applyLandCharge(text, &findings)
		applyHighways(text, &findings)
		applyDrainage(text, &findings)
		applyTitle(text, &findings)
	}
	return findings
}
