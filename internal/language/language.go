package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry

	fold = cases.Fold()
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO3 converts a language code or BCP 47 tag to ISO 639-2 (3-letter), the
// form container metadata expects. Returns "und" for unrecognized input.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if tag, ok := parse(code); ok {
		base, _ := tag.Base()
		if e := lookup(base.String()); e != nil {
			return e.code3
		}
		if iso3 := base.ISO3(); iso3 != "" {
			return iso3
		}
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns a human-readable name for a caption language tag.
// Returns "Unknown" for empty input, or the input unchanged when it is not a
// recognizable tag.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if tag, ok := parse(code); ok {
		if name := display.English.Tags().Name(tag); name != "" {
			return name
		}
	}
	return code
}

// Canonical returns the canonical BCP 47 spelling of tag (e.g. "zh-hans" ->
// "zh-Hans"). Tags that do not parse are returned trimmed.
func Canonical(tag string) string {
	tag = strings.TrimSpace(tag)
	if parsed, ok := parse(tag); ok {
		return parsed.String()
	}
	return tag
}

// Matches reports whether the caption tag candidate satisfies the wanted
// language. Exact tags always match. Otherwise the base languages must agree,
// and when wanted names a script the candidate must carry the same script,
// either explicitly or implied by its region (zh-CN implies Hans, zh-TW Hant).
// A wanted region with no script only accepts the same region.
func Matches(candidate, wanted string) bool {
	candidate = strings.TrimSpace(candidate)
	wanted = strings.TrimSpace(wanted)
	if candidate == "" || wanted == "" {
		return false
	}
	if fold.String(candidate) == fold.String(wanted) {
		return true
	}
	ct, ok := parse(candidate)
	if !ok {
		return false
	}
	wt, ok := parse(wanted)
	if !ok {
		return false
	}
	if ct == wt {
		return true
	}
	cb, _ := ct.Base()
	wb, _ := wt.Base()
	if cb != wb {
		return false
	}
	if ws, conf := wt.Script(); conf == xlanguage.Exact {
		cs, ok := explicitScript(ct)
		return ok && cs == ws
	}
	if wr, conf := wt.Region(); conf == xlanguage.Exact {
		cr, cconf := ct.Region()
		return cconf == xlanguage.Exact && cr == wr
	}
	return true
}

// MatchFamily returns the index of the first candidate satisfying the family,
// walking the family in preference order.
func MatchFamily(candidates []string, family []string) (int, bool) {
	for _, wanted := range family {
		for i, candidate := range candidates {
			if Matches(candidate, wanted) {
				return i, true
			}
		}
	}
	return -1, false
}

// InFamily reports whether tag satisfies any member of family.
func InFamily(tag string, family []string) bool {
	_, ok := MatchFamily([]string{tag}, family)
	return ok
}

func explicitScript(tag xlanguage.Tag) (xlanguage.Script, bool) {
	script, conf := tag.Script()
	if conf == xlanguage.Exact {
		return script, true
	}
	if _, rconf := tag.Region(); rconf == xlanguage.Exact && conf != xlanguage.No {
		return script, true
	}
	return script, false
}

func parse(code string) (xlanguage.Tag, bool) {
	if code == "" {
		return xlanguage.Und, false
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return xlanguage.Und, false
	}
	return tag, true
}
