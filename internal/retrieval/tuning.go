package retrieval

// Empirically tuned ranking constants. These were settled by answer-quality
// regression runs; changing any of them changes result ordering, so they stay
// fixed rather than configurable.
const (
	// Strategy weights multiply into the distance score (lower = better), so
	// a weight under 1.0 worsens the contribution and lets exact-query hits
	// win ties against normalized or single-term variants.
	normalizedQueryWeight = 0.95
	singleTermWeight      = 0.7

	// Flat pseudo-distance for chunks pulled by the filename scan, which
	// bypasses vector similarity entirely.
	filenameScanScore = 0.5

	directKMultiplier      = 4
	termKMultiplier        = 2
	maxTermLookups         = 3
	minImportantTermLen    = 3 // strictly greater than
	minFilenameScanTermLen = 4 // strictly greater than
	maxChunksPerScannedDoc = 5

	// Boosts subtract from the distance score.
	filenameStrongBoost  = 0.4
	filenamePhraseBoost  = 0.5
	filenamePartialSlope = 0.25
	titleStrongBoost     = 0.35
	titlePhraseBoost     = 0.45
	titlePartialSlope    = 0.2
	tagStrongBoost       = 0.3
	tagPartialSlope      = 0.15
	strongMatchRatio     = 0.5
	continuityBoost      = 0.3
	boostEpsilon         = 0.01

	dedupePrefixLen = 50

	// Conversation rewriting.
	historyWindow         = 10
	substantialMessageLen = 20 // strictly greater than
	minTopicKeywordLen    = 3  // strictly greater than
	maxTopicKeywords      = 5
	defaultLimit          = 10
)
