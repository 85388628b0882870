package fields

import (
	"reflect"
	"testing"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

const landChargeSample = `
LOCAL LAND CHARGES REGISTER - OFFICIAL SEARCH CERTIFICATE
Local Authority: Riverdale Borough Council
Address: 14 Mill Lane, Riverdale RD2 4QT
UPRN: 100023456789
The property is a Grade II listed building.
Conservation Area: Riverdale Old Town
TPO ref: RD/123/4 protects trees at the boundary. TPO ref: RD/123/4 is repeated here.
Agreement under Section 106 of the Town and Country Planning Act applies.
Community Infrastructure Levy liability notice served.
`

const highwaysSample = `
CON29 REPLIES
The road fronting the property is not an adopted highway.
The site lies within Flood Zone 2. Parts of the garden fall in Flood Zone 3.
Planning references: RD/2021/0042 and RD/2021/0042 and also APP/19/881.
There is a public sewer within 3m of the building. A water main crosses the site.
`

func TestExtract_EmptyText(t *testing.T) {
	findings := Extract("", docModel.KindUnknown)

	if findings.RawLength != 0 {
		t.Errorf("RawLength = %d, want 0", findings.RawLength)
	}
	if findings.LandCharge.TPO.Determined() {
		t.Error("TPO should be undetermined on empty text, not a confirmed negative")
	}
	if findings.Highways.FloodZone.Determined() {
		t.Error("FloodZone should be undetermined on empty text")
	}
	if findings.Title.LeaseTermYears != nil {
		t.Error("LeaseTermYears should be nil on empty text")
	}
}

func TestExtract_LandChargeLeaves(t *testing.T) {
	findings := Extract(landChargeSample, docModel.KindLandCharge)

	if got := findings.Property.Council; got != "Riverdale Borough Council" {
		t.Errorf("Council = %q", got)
	}
	if got := findings.Property.UPRN; got != "100023456789" {
		t.Errorf("UPRN = %q", got)
	}
	if got := findings.Property.Postcode; got != "RD2 4QT" {
		t.Errorf("Postcode = %q", got)
	}

	presenceChecks := []struct {
		name string
		flag docModel.Flag
	}{
		{"listed building", findings.LandCharge.ListedBuilding},
		{"conservation area", findings.LandCharge.ConservationArea},
		{"tpo", findings.LandCharge.TPO},
		{"s106", findings.LandCharge.S106},
		{"cil", findings.LandCharge.CIL},
	}
	for _, check := range presenceChecks {
		if !check.flag.IsPresent() {
			t.Errorf("%s flag not present", check.name)
		}
		if check.flag.Evidence == "" {
			t.Errorf("%s flag has no evidence excerpt", check.name)
		}
	}

	if got := findings.LandCharge.ListedBuildingGrade; got != "II" {
		t.Errorf("ListedBuildingGrade = %q, want II", got)
	}
	if got := findings.LandCharge.ConservationAreaName; got != "Riverdale Old Town" {
		t.Errorf("ConservationAreaName = %q", got)
	}
	// repeated refs collapse to one, first-seen order
	if got := findings.LandCharge.TPORefs; !reflect.DeepEqual(got, []string{"RD/123/4"}) {
		t.Errorf("TPORefs = %v, want [RD/123/4]", got)
	}

	// kind hint gates the other batteries
	if findings.Highways.FloodZone.Determined() {
		t.Error("land-charge hint should not run the highways battery")
	}
}

func TestExtract_HighwaysLeaves(t *testing.T) {
	findings := Extract(highwaysSample, docModel.KindHighwaysReport)

	// Zone 3 appears after Zone 2 in the text but must still win
	if got := findings.Highways.FloodZone.Grade; got != docModel.FloodZone3 {
		t.Errorf("FloodZone grade = %q, want %q", got, docModel.FloodZone3)
	}
	// negative phrasing contains the word "adopted" and must not read as adopted
	if got := findings.Highways.RoadStatus.Grade; got != docModel.RoadUnadopted {
		t.Errorf("RoadStatus grade = %q, want %q", got, docModel.RoadUnadopted)
	}

	if got := findings.Highways.PlanningRefs; !reflect.DeepEqual(got, []string{"RD/2021/0042", "APP/19/881"}) {
		t.Errorf("PlanningRefs = %v", got)
	}

	if !findings.Drainage.AdoptedSewerNearby.IsPresent() {
		t.Error("public sewer within 3m should be present")
	}
	if !findings.Drainage.WaterMainOnSite.IsPresent() {
		t.Error("water main should be present")
	}
}

func TestExtract_TitleLeaves(t *testing.T) {
	text := `
TITLE REGISTER
Title Number: RD123456
The lease is for a term of 68 years from 1 January 1988.
Restrictions: No disposition without consent of the lender.
Easements: Right of way over the rear passage.
`
	findings := Extract(text, docModel.KindTitleRegister)

	if got := findings.Property.TitleNumber; got != "RD123456" {
		t.Errorf("TitleNumber = %q", got)
	}
	if findings.Title.LeaseTermYears == nil {
		t.Fatal("LeaseTermYears is nil")
	}
	if got := *findings.Title.LeaseTermYears; got != 68 {
		t.Errorf("LeaseTermYears = %d, want 68", got)
	}
	if len(findings.Title.Restrictions) != 1 || len(findings.Title.Easements) != 1 {
		t.Errorf("Restrictions = %v, Easements = %v", findings.Title.Restrictions, findings.Title.Easements)
	}
}

func TestExtract_UnknownKindRunsEverything(t *testing.T) {
	findings := Extract(landChargeSample+highwaysSample, docModel.KindUnknown)

	if !findings.LandCharge.S106.IsPresent() {
		t.Error("s106 not extracted under unknown kind")
	}
	if !findings.Highways.FloodZone.Determined() {
		t.Error("flood zone not graded under unknown kind")
	}
	if !findings.Drainage.AdoptedSewerNearby.IsPresent() {
		t.Error("drainage not extracted under unknown kind")
	}
}

func TestExtract_Deterministic(t *testing.T) {
	first := Extract(landChargeSample, docModel.KindLandCharge)
	second := Extract(landChargeSample, docModel.KindLandCharge)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different findings")
	}
}

func TestExcerpt_CollapsesWhitespaceAndCaps(t *testing.T) {
	got := excerpt("flood   zone\n\t3 ")
	if got != "flood zone 3" {
		t.Errorf("excerpt = %q", got)
	}

	huge := ""
	for i := 0; i < 50; i++ {
		huge += "evidence "
	}
	if len(excerpt(huge)) > maxEvidenceLen {
		t.Errorf("excerpt exceeds %d chars", maxEvidenceLen)
	}
}
