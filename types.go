package pagetl

// Content formats understood by translation providers.
const (
	FormatHTML = "html"
	FormatText = "text"
)

// Result is the outcome of a single translation.
type Result struct {
	Content    string // Translated content
	TargetLang string // Language the content was translated into
	Cached     bool   // Served from the translation cache
	Skipped    bool   // Source and target language match, content returned unchanged
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"iw": true, // Hebrew (legacy code still returned by Google)
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
	"yi": true, // Yiddish
}
