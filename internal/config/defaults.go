package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	// DefaultUserAgent mimics a desktop browser; the source site serves a
	// reduced layout to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	DefaultHTTPTimeout    = 15 * time.Second
	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 4

	DefaultCacheTTL          = 2 * time.Minute
	DefaultCacheMaxSizeBytes = 32 * 1024 * 1024 // 32MB

	DefaultBrowser          = "chromium"
	DefaultHeadless         = false
	DefaultStorageStatePath = "storage_state.json"

	DefaultMaxImagesToFetch     = 10
	DefaultDownloadDelaySeconds = 0.5
	DefaultUploadWaitSeconds    = 5.0
	DefaultDownloadDir          = "images"
	DefaultDiagnosticsDir       = "."
)

// Default selectors for the salon gallery. These track the source site's
// current markup and are expected to drift; override via the config file.
const (
	DefaultSalonNameSelector = "#mainContents > div.detailHeader.cFix.pr > div > div.pL10.oh.hMin120 > div > p.detailTitle > a"
	DefaultMaxPageSelector   = "#mainContents > div.mT20 > div.pH10.mT25.pr > p.pa.bottom0.right0"
	DefaultStyleImage        = "#jsiHoverAlphaLayerScope img.bdImgGray"
	DefaultCleanupPattern    = "?impolicy="
)

// Default selectors for the destination console. Text selectors assume the
// ja-JP locale the browser context is pinned to.
const (
	DefaultOwnerPromptSelector = "text=このビジネスのオーナーですか？"
	DefaultOwnerIframeSelector = `iframe[src^="https://business.google.com"]`
	DefaultContinueSelector    = "text=続行"

	DefaultAddPhotoSelector     = "text=写真を追加"
	DefaultUploadIframeSelector = `iframe[src*="photo_upload"]`
	DefaultSelectFilesSelector  = "text=ファイルを選択"
)
