package manifest

// FileName is the manifest name inside a build output directory.
const FileName = "rawpng.manifest.json"

// Manifest is the top-level output of a rawpng build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Alpha   string `json:"alpha"`   // auto, keep or drop
	Compare bool   `json:"compare"` // deflate sizes recorded
}

// Asset describes a single source image and all its generated variants.
type Asset struct {
	Source   SourceInfo `json:"source"`
	Variants []Variant  `json:"variants"`
}

// SourceInfo holds metadata about the input file.
type SourceInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"` // decoder name, or "raw" for pixel dumps
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Variant is one encoded output of an asset at a specific width.
type Variant struct {
	Format      string `json:"format"` // "stored" or "deflate"
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	HasAlpha    bool   `json:"has_alpha"`
	Size        int64  `json:"size"`                   // bytes on disk
	DeflateSize int64  `json:"deflate_size,omitempty"` // same pixels at best compression
	Hash        string `json:"hash"`                   // first 16 hex chars of xxhash64
	Path        string `json:"path"`                   // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes   int64 `json:"total_input_bytes"`
	TotalOutputBytes  int64 `json:"total_output_bytes"`
	TotalDeflateBytes int64 `json:"total_deflate_bytes,omitempty"`
	TotalAssets       int   `json:"total_assets"`
	TotalVariants     int   `json:"total_variants"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
