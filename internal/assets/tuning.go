package assets

// Matcher scoring constants, tuned alongside the retrieval boosts. The
// weighted suggestion formula trades exactness for recall only below the
// precise-match ladder; these values are fixed by regression runs.
const (
	tagWeight      = 0.4
	productWeight  = 0.3
	filenameWeight = 0.2
	vectorWeight   = 0.1

	suggestionThreshold = 0.2
	filenameFloorBoost  = 0.1

	candidateMultiplier = 2
	defaultLimit        = 10

	productScanLines  = 15
	descriptionWindow = 200
	descriptionMax    = 300

	minQueryTermLen = 2 // strictly greater than
)

// Known product acronyms and their spoken variants. A query hitting one of
// these maps straight to a precise match when any variant shows up in the
// document's tags, product name, or filename.
var productAcronyms = map[string][]string{
	"eve":     {"eve", "encrypted visibility engine"},
	"aiops":   {"aiops", "ai ops", "scc", "security cloud control"},
	"rtc":     {"rtc", "rapid threat containment"},
	"sgt":     {"sgt", "security group tags"},
	"mcd":     {"mcd", "automated cloud security orchestration"},
	"snortml": {"snortml", "snort ml", "zero day"},
}

// Substrings that mark a line as a product title even without the
// "Category | Product" format.
var productIndicators = []string{
	"snortml", "eve", "aiops", "rtc", "sgt", "mcd", "hypershield", "l4",
}
