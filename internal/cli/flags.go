package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	LogDir      string
	BatchFile   string
	AnkiFile    string
	ArchiveLogs bool
	ListModels  bool

	// Server flags
	Server string
	Model  string

	// Generation flags
	Temperature float64
	MaxTokens   int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogDir:      "log",
		Server:      "localhost:1234",
		Model:       "google/gemma-3n-e4b",
		Temperature: 0.1,
	}
}
