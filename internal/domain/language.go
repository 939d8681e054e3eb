package domain

import "strings"

// Language is an explanation language the lookup can answer in.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// knownLanguages lists every language the prompts know how to name.
// Which of them are offered is decided by configuration.
var knownLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "zh-TW", Name: "Traditional Chinese"},
	{Code: "zh-CN", Name: "Simplified Chinese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "ru", Name: "Russian"},
}

// LookupLanguage finds a known language by code, case-insensitively.
func LookupLanguage(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	for _, l := range knownLanguages {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageSet is the configured set of supported explanation languages.
type LanguageSet struct {
	langs []Language
}

// NewLanguageSet builds a set from codes. Unknown codes are reported back so
// configuration validation can reject them.
func NewLanguageSet(codes []string) (LanguageSet, []string) {
	var set LanguageSet
	var unknown []string
	for _, c := range codes {
		l, ok := LookupLanguage(c)
		if !ok {
			unknown = append(unknown, c)
			continue
		}
		if _, dup := set.Get(l.Code); dup {
			continue
		}
		set.langs = append(set.langs, l)
	}
	return set, unknown
}

// Get returns the supported language with the given code.
func (s LanguageSet) Get(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	for _, l := range s.langs {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// All returns the supported languages in configuration order.
func (s LanguageSet) All() []Language {
	out := make([]Language, len(s.langs))
	copy(out, s.langs)
	return out
}

// Len returns the number of supported languages.
func (s LanguageSet) Len() int { return len(s.langs) }
