// Package services – answer post-processing
//
// This file implements the post-processor applied to every raw answer coming
// back from the AI gateway before it reaches the caller or the transcript
// store. Three stages, each operating on the previous stage's output:
//
//  1. Link extraction: bracketed URLs are collected in order of appearance
//     and the bracketed substrings removed from the text.
//  2. List-number verbalization: numeric list markers are rewritten into
//     words for speech synthesis, in the language the turn was asked in.
//  3. Trimming: both the cleaned answer and its voice rendering are stripped
//     of leading/trailing whitespace.
//
// Everything here is pure and deterministic for a given (text, lang) pair;
// no I/O, no state.
package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// linkRE matches an http(s):// or www. URL immediately enclosed in a single
// pair of square brackets or parentheses. The scheme match is case-sensitive.
var linkRE = regexp.MustCompile(`[\[(](https?://[^\s]+|www\.[^\s]+)[\])]`)

// listMarkerRE matches a numeric list marker anchored at the start of a line
// ("1.", "23.", ...).
var listMarkerRE = regexp.MustCompile(`(?m)^(\d+)\.`)

// dottedNumberRE matches a dotted numeric sequence of two or more segments
// anywhere in the text ("1.2", "1.2.3", ...).
var dottedNumberRE = regexp.MustCompile(`\d+(\.\d+)+`)

// voiceWords holds the localized vocabulary for list-number verbalization.
type voiceWords struct {
	number string
	point  string
}

// voiceLocales maps a base language to its verbalization vocabulary. New
// languages are added here; there is no branching on tags elsewhere.
var voiceLocales = map[language.Base]voiceWords{
	mustBase("en"): {number: "number", point: "point"},
	mustBase("it"): {number: "numero", point: "punto"},
}

var defaultVoiceWords = voiceWords{number: "number", point: "point"}

func mustBase(s string) language.Base {
	b, err := language.ParseBase(s)
	if err != nil {
		panic(err)
	}
	return b
}

// wordsFor resolves the verbalization vocabulary for a language tag
// ("EN-US", "IT", "it-CH", ...). Unknown or malformed tags fall back to
// English.
func wordsFor(lang string) voiceWords {
	tag, err := language.Parse(lang)
	if err != nil {
		return defaultVoiceWords
	}
	base, _ := tag.Base()
	if w, ok := voiceLocales[base]; ok {
		return w
	}
	return defaultVoiceWords
}

// ExtractLinks removes every bracketed URL from text and returns the cleaned
// text plus the URLs in order of appearance. The returned slice is never
// nil: text without links yields the text unchanged and an empty slice.
func ExtractLinks(text string) (string, []string) {
	links := []string{}
	for _, m := range linkRE.FindAllStringSubmatch(text, -1) {
		links = append(links, m[1])
	}
	return linkRE.ReplaceAllString(text, ""), links
}

// VerbalizeListNumbers rewrites numeric list markers into words suitable for
// text-to-speech. Two independent passes: line-anchored markers first
// ("1." → "number 1."), then dotted sequences anywhere in the text
// ("1.2.3" → "number 1 point 2 point 3.").
func VerbalizeListNumbers(text, lang string) string {
	w := wordsFor(lang)

	text = listMarkerRE.ReplaceAllString(text, w.number+" ${1}.")

	return dottedNumberRE.ReplaceAllStringFunc(text, func(m string) string {
		segs := strings.Split(m, ".")
		return w.number + " " + strings.Join(segs, " "+w.point+" ") + "."
	})
}

// RefineAnswer runs the full post-processing pipeline on a raw answer and
// returns the cleaned answer, the extracted links, and the voice rendering.
// Verbalization runs on the link-stripped text, so a number embedded in a
// removed link fragment is never verbalized.
func RefineAnswer(raw, lang string) (answer string, links []string, voice string) {
	answer, links = ExtractLinks(raw)
	voice = VerbalizeListNumbers(answer, lang)
	return strings.TrimSpace(answer), links, strings.TrimSpace(voice)
}
