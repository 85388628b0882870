package pack

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

type Metadata struct {
	ID        string
	Title     string
	CreatedBy string
}

type BuildResult struct {
	Manifest      docModel.SubmissionManifest
	Archive       []byte
	ArchiveSHA256 string
}

// Builder assembles source files plus derived data into a zip whose first
// entry is a checksummed manifest. A missing input or a colliding archive
// name aborts the whole build before any archive bytes exist; partial packs
// are never returned.
type Builder struct {
	logger *logger_i.Logger
	now    func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{
		logger: logger_i.NewLogger("Pack Builder"),
		now:    time.Now,
	}
}

// Build bundles filePaths (read from disk, hashed in fixed-size chunks) and
// extras (derived JSON produced earlier in the pipeline, addressed by archive
// filename).
func (b *Builder) Build(filePaths []string, extras map[string][]byte, meta Metadata) (*BuildResult, error) {
	entries := []docModel.ManifestEntry{}
	var totalSize int64

	// Members are stored flat under their basename, so every input and extra
	// must resolve to a distinct name or the later member shadows the earlier
	// one and the pack can never verify against its own manifest.
	seen := map[string]bool{config.ManifestFilename: true}

	for _, path := range filePaths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		sum, err := hashFile(path)
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", path, err)
		}
		name := filepath.Base(path)
		if seen[name] {
			return nil, fmt.Errorf("duplicate archive name %q from %s", name, path)
		}
		seen[name] = true
		entries = append(entries, docModel.ManifestEntry{
			Filename:   name,
			Path:       name,
			SizeBytes:  info.Size(),
			SHA256:     sum,
			MimeType:   mimeTypeFor(name),
			CreatedAt:  docModel.Timestamp(info.ModTime()),
			ModifiedAt: docModel.Timestamp(info.ModTime()),
		})
		totalSize += info.Size()
	}

	for _, name := range sortedKeys(extras) {
		if seen[name] {
			return nil, fmt.Errorf("duplicate archive name %q", name)
		}
		seen[name] = true
		content := extras[name]
		stamp := docModel.Timestamp(b.now())
		entries = append(entries, docModel.ManifestEntry{
			Filename:   name,
			Path:       name,
			SizeBytes:  int64(len(content)),
			SHA256:     hashBytes(content),
			MimeType:   mimeTypeFor(name),
			CreatedAt:  stamp,
			ModifiedAt: stamp,
		})
		totalSize += int64(len(content))
	}

	manifest := docModel.SubmissionManifest{
		SubmissionPack: docModel.PackInfo{
			ID:        meta.ID,
			Title:     meta.Title,
			CreatedAt: docModel.Timestamp(b.now()),
			CreatedBy: meta.CreatedBy,
			Version:   config.PackVersion,
		},
		Integrity: docModel.IntegrityInfo{
			TotalFiles:      len(entries),
			TotalSizeBytes:  totalSize,
			ManifestVersion: config.ManifestVersion,
			HashAlgorithm:   "SHA256",
		},
		Files: entries,
		Metadata: docModel.PackMetadata{
			ModelVersion:        config.ModelVersionTag,
			GenerationTimestamp: docModel.Timestamp(b.now()),
		},
		Verification: docModel.Verification{
			ChecksumAlgorithm: "SHA256",
		},
	}

	checksum, err := ManifestChecksum(manifest)
	if err != nil {
		return nil, fmt.Errorf("manifest checksum: %w", err)
	}
	manifest.Verification.ManifestChecksum = checksum

	archive, err := b.writeArchive(manifest, filePaths, extras)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Manifest:      manifest,
		Archive:       archive,
		ArchiveSHA256: hashBytes(archive),
	}
	b.logger.Info("Submission pack built", "packId", meta.ID, "files", len(entries), "archiveBytes", len(archive))
	return result, nil
}

func (b *Builder) writeArchive(manifest docModel.SubmissionManifest, filePaths []string, extras map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// Manifest goes in first so a partial read still yields the index.
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	w, err := zw.Create(config.ManifestFilename)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return nil, err
	}

	for _, path := range filePaths {
		if err := copyIntoArchive(zw, path); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(extras) {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(extras[name]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func copyIntoArchive(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// ManifestChecksum hashes the canonical JSON form of the manifest with its
// own checksum field emptied. Struct field order keeps the serialization
// stable, so independently built and re-read manifests hash identically.
func ManifestChecksum(manifest docModel.SubmissionManifest) (string, error) {
	manifest.Verification.ManifestChecksum = ""
	canonical, err := json.Marshal(manifest)
	if err != nil {
		return "", err
	}
	return hashBytes(canonical), nil
}

// hashFile streams the file through sha256 in fixed-size chunks; pack inputs
// can be large scans and must not be slurped whole.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, config.HashChunkSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
