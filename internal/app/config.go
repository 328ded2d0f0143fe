package app

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs are local HTML files, parsed independently.
	Inputs     []string
	OutputPath string
	// Format is one of "markdown", "json" or "pdf".
	Format string

	// Delimiter
	DelimiterTag string
	TitleAttr    string
	// TitlePattern, when set, replaces TitleAttr: the first match against a
	// tag's raw attribute text becomes the title.
	TitlePattern string

	// Extraction
	ImageTag   string
	ImageAttr  string
	InlineTags []string
	RawText    bool

	// Behavior
	Strict      bool
	Concurrency int
	Verbose     bool
}

const (
	outputDefault       = "-"
	formatDefault       = "markdown"
	delimiterTagDefault = "a"
	titleAttrDefault    = "name"
	imageTagDefault     = "img"
	imageAttrDefault    = "title"
	concurrencyDefault  = 4
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		OutputPath:   outputDefault,
		Format:       formatDefault,
		DelimiterTag: delimiterTagDefault,
		TitleAttr:    titleAttrDefault,
		ImageTag:     imageTagDefault,
		ImageAttr:    imageAttrDefault,
		InlineTags:   []string{"a", "span"},
		Concurrency:  concurrencyDefault,
	}
}
