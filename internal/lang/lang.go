package lang

// Language identifies one translation target language.
type Language string

const (
	English  Language = "en"
	Japanese Language = "ja"
	Spanish  Language = "es"
	French   Language = "fr"
)

// Stages returns the enabled sentence stages in submission order.
// English is requested first, then Japanese; Spanish and French are
// currently disabled but keep their archive columns and log slots.
func Stages() []Language {
	return []Language{English, Japanese}
}

// All returns every known language in display order.
func All() []Language {
	return []Language{English, Japanese, Spanish, French}
}

// Disabled reports whether the language is currently switched off.
func (l Language) Disabled() bool {
	return l == Spanish || l == French
}

// LogName returns the name used in per-request raw log filenames.
func (l Language) LogName() string {
	switch l {
	case English:
		return "English"
	case Japanese:
		return "Japanese"
	case Spanish:
		return "Spanish"
	case French:
		return "French"
	}
	return string(l)
}

// LogIndex returns the numeric slot of the language's raw log file.
// Slot 001 is the input log; 006/007 belong to the Q&A flow.
func (l Language) LogIndex() int {
	switch l {
	case Japanese:
		return 2
	case English:
		return 3
	case Spanish:
		return 4
	case French:
		return 5
	}
	return 0
}
