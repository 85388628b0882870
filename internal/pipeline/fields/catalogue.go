package fields

import (
	"regexp"
	"strconv"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

// Sub-patterns shared across document kinds. Local land charge certificates,
// CON29 replies and title registers all use slightly different phrasing for
// the same facts; the alternations below cover the variants seen in real
// authority output.

var (
	//property identification
	reCouncil     = regexp.MustCompile(`(?im)(?:local\s+authority|council|authority)\s*:\s*([^\n]+)`)
	reAddress     = regexp.MustCompile(`(?im)(?:site\s*address|address)\s*:\s*([^\n]+)`)
	reAddressNear = regexp.MustCompile(`(?i)([A-Za-z0-9 ,.-]{15,}?)\s+(?:Tel|Telephone|Email)\b`)
	reTitleNumber = regexp.MustCompile(`(?im)title\s+number\s*:\s*([A-Z]{0,3}\d+)`)
	reUPRN        = regexp.MustCompile(`(?i)\bUPRN\s*:\s*(\d+)`)
	rePostcode    = regexp.MustCompile(`(?i)\b([A-Z]{1,2}\d[A-Z0-9]?\s*\d[A-Z]{2})\b`)

	//llc1
	reListedBuilding = regexp.MustCompile(`(?i)\blisted\s+building\b`)
	reListedGrade    = regexp.MustCompile(`(?i)(?:\bgrade\s+(II\*|II|I)\s+listed\b|\blisted\s+building\b[^\n.]*?\bgrade\s+(II\*|II|I)\b)`)
	reConservation   = regexp.MustCompile(`(?i)\bconservation\s+area\b`)
	reConservationNm = regexp.MustCompile(`(?im)conservation\s+area\s*[:\-]\s*([^\n]+)`)
	reTPO            = regexp.MustCompile(`(?i)\bTPO\b|\btree\s+preservation\b`)
	reTPORefs        = regexp.MustCompile(`(?i)\bTPO\s*(?:no\.?|ref\.?|reference)?\s*[:#]?\s*([A-Z]{0,3}/?\d{1,4}(?:/\d{1,4})?[A-Z]?)`)
	reArticle4       = regexp.MustCompile(`(?i)\barticle\s*4\b`)
	reFinancialChg   = regexp.MustCompile(`(?i)\bfinancial\s+charge`)
	reS106           = regexp.MustCompile(`(?i)\bsection\s*106\b|\bs\.?\s*106\b`)
	reCIL            = regexp.MustCompile(`(?i)\bcommunity\s+infrastructure\s+levy\b|\bCIL\b`)
	reSmokeControl   = regexp.MustCompile(`(?i)\bsmoke\s+control\s+area\b`)

	//con29
	reEnforcement   = regexp.MustCompile(`(?i)\benforcement\s+notice`)
	reStopNotice    = regexp.MustCompile(`(?i)\bstop\s+notice`)
	reBuildingRegs  = regexp.MustCompile(`(?i)\bbuilding\s+regulations?\s+(?:approval|completion|certificate)`)
	reCompulsory    = regexp.MustCompile(`(?i)\bcompulsory\s+purchase`)
	reContaminated  = regexp.MustCompile(`(?i)\bcontaminated\s+land`)
	reRadonBand     = regexp.MustCompile(`(?im)radon\s+(?:band|protection)\s*[:\-]?\s*([^\n.]+)`)
	rePlanningRefs  = regexp.MustCompile(`\b[A-Z]{0,3}/?\d{2,4}/\d{1,4}[A-Z]?\b`)

	//drainage
	rePublicSewer = regexp.MustCompile(`(?i)\bpublic\s+sewer\s+within\s+3\s*m(?:etres)?\b|\badopted\s+sewer\b`)
	reWaterMain   = regexp.MustCompile(`(?i)\bwater\s+main\b`)
	reBuildOver   = regexp.MustCompile(`(?i)\bbuild[\s-]*over\s+agreement\b`)

	//title register
	reLeaseYears   = regexp.MustCompile(`(?i)(?:\bterm\s+of\s+(\d{2,3})\s*years\b|\blease\b[^\n.]*?\b(\d{2,3})\s*years\b)`)
	reRestrictions = regexp.MustCompile(`(?im)^\s*restrictions?\s*[:\-]\s*(.+)$`)
	reEasements    = regexp.MustCompile(`(?im)^\s*easements?\s*[:\-]\s*(.+)$`)
	reCharges      = regexp.MustCompile(`(?im)^\s*charges?\s*[:\-]\s*(.+)$`)
)

// Flood zone battery, most severe first: a document mentioning both Zone 3
// and Zone 2 is graded Zone 3.
var floodGrades = []grade{
	{regexp.MustCompile(`(?i)\bflood\s*zone\s*3\b`), docModel.FloodZone3, docModel.ConfidenceHigh},
	{regexp.MustCompile(`(?i)\bflood\s*zone\s*2\b`), docModel.FloodZone2, docModel.ConfidenceHigh},
	{regexp.MustCompile(`(?i)\bsurface\s*water\b`), docModel.SurfaceWater, docModel.ConfidenceMedium},
}

// Road adoption battery. Negative phrasing outranks the bare word "adopted"
// so "not an adopted highway" never reads as adopted.
var roadGrades = []grade{
	{regexp.MustCompile(`(?i)\bnot\s+(?:an?\s+)?adopted\b|\bunadopted\b`), docModel.RoadUnadopted, docModel.ConfidenceHigh},
	{regexp.MustCompile(`(?i)\bmaintainable\s+at\s+(?:the\s+)?public\s+expense\b`), docModel.RoadAdopted, docModel.ConfidenceHigh},
	{regexp.MustCompile(`(?i)\badopted\s+highway\b`), docModel.RoadAdopted, docModel.ConfidenceMedium},
}

func applyProperty(text string, f *docModel.StructuredFindings) {
	f.Property.Council = capture(reCouncil, text)
	f.Property.Address = capture(reAddress, text)
	if f.Property.Address == "" {
		// fallback: anything address-shaped that runs into a contact line
		f.Property.Address = capture(reAddressNear, text)
	}
	f.Property.TitleNumber = capture(reTitleNumber, text)
	f.Property.UPRN = capture(reUPRN, text)
	f.Property.Postcode = capture(rePostcode, text)
}

func applyLandCharge(text string, f *docModel.StructuredFindings) {
	llc := &f.LandCharge
	llc.ListedBuilding = presence(reListedBuilding, text)
	llc.ListedBuildingGrade = capture(reListedGrade, text)
	llc.ConservationArea = presence(reConservation, text)
	llc.ConservationAreaName = capture(reConservationNm, text)
	llc.TPO = presence(reTPO, text)
	llc.TPORefs = list(reTPORefs, text)
	llc.Article4 = presence(reArticle4, text)
	llc.FinancialCharge = presence(reFinancialChg, text)
	llc.S106 = presence(reS106, text)
	llc.CIL = presence(reCIL, text)
	llc.SmokeControl = presence(reSmokeControl, text)
}

func applyHighways(text string, f *docModel.StructuredFindings) {
	con := &f.Highways
	con.RoadStatus = graded(roadGrades, text)
	con.PlanningRefs = list(rePlanningRefs, text)
	con.EnforcementNotice = presence(reEnforcement, text)
	con.StopNotice = presence(reStopNotice, text)
	con.BuildingRegsComplete = presence(reBuildingRegs, text)
	con.CompulsoryPurchase = presence(reCompulsory, text)
	con.ContaminatedLand = presence(reContaminated, text)
	con.FloodZone = graded(floodGrades, text)
	con.RadonBand = capture(reRadonBand, text)
}

func applyDrainage(text string, f *docModel.StructuredFindings) {
	dr := &f.Drainage
	dr.AdoptedSewerNearby = presence(rePublicSewer, text)
	dr.WaterMainOnSite = presence(reWaterMain, text)
	dr.BuildOverAgreement = presence(reBuildOver, text)
}

func applyTitle(text string, f *docModel.StructuredFindings) {
	t := &f.Title
	if years := capture(reLeaseYears, text); years != "" {
		if n, err := strconv.Atoi(years); err == nil {
			t.LeaseTermYears = &n
		}
	}
	t.Restrictions = list(reRestrictions, text)
	t.Easements = list(reEasements, text)
	t.Charges = list(reCharges, text)
}
