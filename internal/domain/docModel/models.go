package docModel

import "time"

type DocumentKind string

const (
	KindLandCharge     DocumentKind = "land-charge"
	KindHighwaysReport DocumentKind = "highways-report"
	KindTitleRegister  DocumentKind = "title-register"
	KindUnknown        DocumentKind = "unknown"
)

// RawDocument is immutable once ingested; the pipeline never mutates it.
type RawDocument struct {
	Content   []byte       `json:"-"`
	MediaType string       `json:"media_type"`
	Filename  string       `json:"filename"`
	Kind      DocumentKind `json:"kind"`
}

type ExtractionMethod string

const (
	MethodDirect      ExtractionMethod = "direct"
	MethodOCRFallback ExtractionMethod = "ocr-fallback"
)

// ExtractedText is always defined, possibly with an empty Text. Extraction
// failure degrades to empty text so downstream stages stay total functions.
type ExtractedText struct {
	Text     string           `json:"text"`
	Method   ExtractionMethod `json:"method"`
	Degraded bool             `json:"degraded"`
	Length   int              `json:"length"`
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type FlagState string

// The zero value is Undetermined: a leaf that never matched means "not
// determined", never "confirmed negative". Callers must check Determined()
// before treating a flag as a negative answer.
const (
	FlagUndetermined FlagState = ""
	FlagPresent      FlagState = "present"
	FlagAbsent       FlagState = "absent"
)

type Flag struct {
	State      FlagState  `json:"state,omitempty"`
	Evidence   string     `json:"evidence,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
}

func (f Flag) IsPresent() bool  { return f.State == FlagPresent }
func (f Flag) Determined() bool { return f.State != FlagUndetermined }

// GradedLeaf holds the winning grade of an ordered severity battery.
type GradedLeaf struct {
	Grade      string     `json:"grade,omitempty"`
	Evidence   string     `json:"evidence,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
}

func (g GradedLeaf) Determined() bool { return g.Grade != "" }

// Flood zone grades, most severe first.
const (
	FloodZone3   = "Flood Zone 3"
	FloodZone2   = "Flood Zone 2"
	SurfaceWater = "Surface water (screen)"

	RoadAdopted   = "adopted"
	RoadUnadopted = "not adopted"
)

type PropertyFindings struct {
	Council     string `json:"council,omitempty"`
	Address     string `json:"property_address,omitempty"`
	TitleNumber string `json:"title_number,omitempty"`
	UPRN        string `json:"uprn,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

type LandChargeFindings struct {
	ListedBuilding       Flag     `json:"listed_building"`
	ListedBuildingGrade  string   `json:"listed_building_grade,omitempty"`
	ConservationArea     Flag     `json:"conservation_area"`
	ConservationAreaName string   `json:"conservation_area_name,omitempty"`
	TPO                  Flag     `json:"tpo"`
	TPORefs              []string `json:"tpo_refs,omitempty"`
	Article4             Flag     `json:"article4"`
	FinancialCharge      Flag     `json:"financial_charges"`
	S106                 Flag     `json:"s106"`
	CIL                  Flag     `json:"cil"`
	SmokeControl         Flag     `json:"smoke_control"`
}

type HighwaysFindings struct {
	RoadStatus           GradedLeaf `json:"road_status"`
	PlanningRefs         []string   `json:"planning_refs,omitempty"`
	EnforcementNotice    Flag       `json:"enforcement_notices"`
	StopNotice           Flag       `json:"stop_notices"`
	BuildingRegsComplete Flag       `json:"building_regulations"`
	CompulsoryPurchase   Flag       `json:"compulsory_purchase"`
	ContaminatedLand     Flag       `json:"contaminated_land_determination"`
	FloodZone            GradedLeaf `json:"flood_zone"`
	RadonBand            string     `json:"radon_band,omitempty"`
}

type DrainageFindings struct {
	AdoptedSewerNearby Flag `json:"public_sewer_within_3m"`
	WaterMainOnSite    Flag `json:"water_main_within_property"`
	BuildOverAgreement Flag `json:"build_over_agreement"`
}

type TitleFindings struct {
	LeaseTermYears *int     `json:"lease_term_years,omitempty"`
	Restrictions   []string `json:"restrictions,omitempty"`
	Easements      []string `json:"easements,omitempty"`
	Charges        []string `json:"charges,omitempty"`
}

// StructuredFindings is the JSON-serializable nested record handed across the
// pipeline boundary. An untouched leaf stays at its zero value, which reads
// as undetermined everywhere.
type StructuredFindings struct {
	Property   PropertyFindings   `json:"property"`
	LandCharge LandChargeFindings `json:"llc1"`
	Highways   HighwaysFindings   `json:"con29"`
	Drainage   DrainageFindings   `json:"water_drainage"`
	Title      TitleFindings      `json:"title_register"`
	RawLength  int                `json:"raw_length_chars"`
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type RiskFinding struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail,omitempty"`
	Source   string   `json:"source,omitempty"` //findings leaf that produced it
}

type Code string

const (
	CodeFloodZone3       Code = "FLOOD_ZONE_3"
	CodeFloodZone2       Code = "FLOOD_ZONE_2"
	CodeSurfaceWater     Code = "SURFACE_WATER_SCREEN"
	CodeTPO              Code = "TREE_PRESERVATION_ORDER"
	CodeConservationArea Code = "CONSERVATION_AREA"
	CodeS106             Code = "SECTION_106"
	CodeCIL              Code = "CIL_LIABILITY"
	CodeShortLease       Code = "SHORT_LEASE"
)

type SummaryBand string

const (
	BandLow      SummaryBand = "Low"
	BandModerate SummaryBand = "Moderate"
	BandElevated SummaryBand = "Elevated"
	BandHigh     SummaryBand = "High"
)

type RiskReport struct {
	Score      float64               `json:"risk_score"`
	Summary    SummaryBand           `json:"summary"`
	Findings   []RiskFinding         `json:"findings"`
	Confidence map[string]Confidence `json:"confidence"`
	Checklist  []string              `json:"checklist,omitempty"`
}

// ManifestEntry is produced once per bundled file at pack-build time and
// never mutated after.
type ManifestEntry struct {
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	SizeBytes  int64  `json:"size_bytes"`
	SHA256     string `json:"sha256"`
	MimeType   string `json:"mime_type"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

type PackInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	CreatedBy string `json:"created_by,omitempty"`
	Version   string `json:"version"`
}

type IntegrityInfo struct {
	TotalFiles      int    `json:"total_files"`
	TotalSizeBytes  int64  `json:"total_size_bytes"`
	ManifestVersion string `json:"manifest_version"`
	HashAlgorithm   string `json:"hash_algorithm"`
}

type PackMetadata struct {
	ModelVersion        string `json:"model_version"`
	GenerationTimestamp string `json:"generation_timestamp"`
}

type Verification struct {
	ChecksumAlgorithm string `json:"checksum_algorithm"`
	ManifestChecksum  string `json:"manifest_checksum"`
}

// SubmissionManifest's own checksum is computed over its canonical JSON form
// with the checksum field emptied, after all entries are finalized.
type SubmissionManifest struct {
	SubmissionPack PackInfo        `json:"submission_pack"`
	Integrity      IntegrityInfo   `json:"integrity"`
	Files          []ManifestEntry `json:"files"`
	Metadata       PackMetadata    `json:"metadata"`
	Verification   Verification    `json:"verification"`
}

type FileStatus string

const (
	FileVerified         FileStatus = "verified"
	FileMissing          FileStatus = "missing"
	FileSizeMismatch     FileStatus = "size_mismatch"
	FileChecksumMismatch FileStatus = "checksum_mismatch"
)

type FileResult struct {
	Filename       string     `json:"filename"`
	Status         FileStatus `json:"status"`
	SHA256         string     `json:"sha256,omitempty"`
	SizeBytes      int64      `json:"size_bytes,omitempty"`
	ExpectedSHA256 string     `json:"expected_sha256,omitempty"`
	ActualSHA256   string     `json:"actual_sha256,omitempty"`
	ExpectedSize   int64      `json:"expected_size,omitempty"`
	ActualSize     int64      `json:"actual_size,omitempty"`
	Error          string     `json:"error,omitempty"`
}

type VerificationReport struct {
	PackValid     bool                `json:"pack_valid"`
	ManifestValid bool                `json:"manifest_valid"`
	FilesVerified int                 `json:"files_verified"`
	FilesFailed   int                 `json:"files_failed"`
	Errors        []string            `json:"errors"`
	Manifest      *SubmissionManifest `json:"manifest,omitempty"`
	FileResults   []FileResult        `json:"file_results"`
}

// KindFromString normalizes a caller-supplied hint; anything unrecognized is
// treated as unknown and every rule category is applied.
func KindFromString(s string) DocumentKind {
	switch DocumentKind(s) {
	case KindLandCharge, KindHighwaysReport, KindTitleRegister:
		return DocumentKind(s)
	default:
		return KindUnknown
	}
}

func Timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
