package pack

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

// Verify re-checks a previously built pack against its own manifest. A
// missing manifest makes the archive meaningless and aborts; a bad individual
// file is itemized and verification keeps going, so the report is always a
// complete audit of every declared entry.
func Verify(archive []byte) docModel.VerificationReport {
	report := docModel.VerificationReport{
		PackValid:     true,
		ManifestValid: true,
		Errors:        []string{},
		FileResults:   []docModel.FileResult{},
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		report.PackValid = false
		report.ManifestValid = false
		report.Errors = append(report.Errors, fmt.Sprintf("not a readable archive: %v", err))
		return report
	}

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	manifestEntry, ok := byName[config.ManifestFilename]
	if !ok {
		report.PackValid = false
		report.ManifestValid = false
		report.Errors = append(report.Errors, config.ManifestFilename+" not found in submission pack")
		return report
	}

	manifest, err := readManifest(manifestEntry)
	if err != nil {
		report.PackValid = false
		report.ManifestValid = false
		report.Errors = append(report.Errors, fmt.Sprintf("manifest unreadable: %v", err))
		return report
	}
	report.Manifest = manifest

	if declared := manifest.Verification.ManifestChecksum; declared != "" {
		recomputed, err := ManifestChecksum(*manifest)
		if err == nil && recomputed != declared {
			report.ManifestValid = false
			report.Errors = append(report.Errors, "manifest checksum mismatch")
		}
	}

	for _, entry := range manifest.Files {
		result := verifyEntry(entry, byName)
		if result.Status == docModel.FileVerified {
			report.FilesVerified++
		} else {
			report.FilesFailed++
		}
		report.FileResults = append(report.FileResults, result)
	}

	report.PackValid = report.FilesFailed == 0 && report.ManifestValid
	return report
}

func verifyEntry(entry docModel.ManifestEntry, byName map[string]*zip.File) docModel.FileResult {
	zf, ok := byName[entry.Filename]
	if !ok {
		return docModel.FileResult{
			Filename: entry.Filename,
			Status:   docModel.FileMissing,
			Error:    "file not found in archive",
		}
	}

	content, err := readAll(zf)
	if err != nil {
		return docModel.FileResult{
			Filename: entry.Filename,
			Status:   docModel.FileChecksumMismatch,
			Error:    fmt.Sprintf("unreadable entry: %v", err),
		}
	}

	if int64(len(content)) != entry.SizeBytes {
		return docModel.FileResult{
			Filename:     entry.Filename,
			Status:       docModel.FileSizeMismatch,
			ExpectedSize: entry.SizeBytes,
			ActualSize:   int64(len(content)),
		}
	}

	if actual := hashBytes(content); actual != entry.SHA256 {
		return docModel.FileResult{
			Filename:       entry.Filename,
			Status:         docModel.FileChecksumMismatch,
			ExpectedSHA256: entry.SHA256,
			ActualSHA256:   actual,
		}
	}

	return docModel.FileResult{
		Filename:  entry.Filename,
		Status:    docModel.FileVerified,
		SHA256:    entry.SHA256,
		SizeBytes: entry.SizeBytes,
	}
}

func readManifest(zf *zip.File) (*docModel.SubmissionManifest, error) {
	content, err := readAll(zf)
	if err != nil {
		return nil, err
	}
	var manifest docModel.SubmissionManifest
	if err := json.Unmarshal(content, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func readAll(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
