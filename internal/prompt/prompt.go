// Package prompt builds the fixed Japanese-language instruction
// prompts sent to the generation server.
package prompt

import (
	"fmt"

	"github.com/VWRoent/transcyplate/internal/lang"
)

// Sentence returns the translation prompt for one sentence stage.
func Sentence(l lang.Language, text string) string {
	var target string
	switch l {
	case lang.Japanese:
		target = "日本語"
	case lang.English:
		target = "英語"
	case lang.Spanish:
		target = "スペイン語"
	case lang.French:
		target = "フランス語"
	default:
		target = string(l)
	}
	return fmt.Sprintf("簡潔に%sに訳した文だけ記載してください。\n「%s」", target, text)
}

// Word returns the dual-translation lookup prompt for a single German
// word. Only English and Japanese lookups exist.
func Word(l lang.Language, word string) string {
	switch l {
	case lang.Japanese:
		return fmt.Sprintf("簡潔にこのドイツ語に最も近い日本語語をセミコロン区切りの形式で3つ列挙してください。\n「%s」", word)
	default:
		return fmt.Sprintf("簡潔にこのドイツ語に最も近い英語をセミコロン区切りの形式で3つ列挙してください。\n「%s」", word)
	}
}
