// Package dialog renders spoken responses from the embedded locale files and
// maps spoken verbs of a locale onto canonical actions.
package dialog

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"path"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"hass-skill/internal/domain"
)

const DefaultLanguage = "en-us"

//go:embed locales/*.yaml
var locales embed.FS

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

type localeFile struct {
	Dialogs map[string][]string `yaml:"dialogs"`
	Verbs   map[string][]string `yaml:"verbs"`
}

// Catalog holds the phrases and verbs of one language.
type Catalog struct {
	language string
	dialogs  map[string][]string
	verbs    map[string]string
	pick     func(n int) int
}

// Languages lists the languages with an embedded locale file.
func Languages() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(langs)
	return langs
}

// Load parses the locale file of language, e.g. "en-us" or "de_DE".
func Load(language string) (*Catalog, error) {
	lang := normalizeLanguage(language)
	if lang == "" {
		lang = DefaultLanguage
	}

	data, err := locales.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q", language)
	}

	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing locale %s: %w", lang, err)
	}

	c := &Catalog{
		language: lang,
		dialogs:  file.Dialogs,
		verbs:    make(map[string]string),
		pick:     rand.IntN,
	}
	for canonical, words := range file.Verbs {
		c.verbs[canonical] = canonical
		for _, w := range words {
			c.verbs[strings.ToLower(w)] = canonical
		}
	}
	return c, nil
}

func normalizeLanguage(language string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(language)), "_", "-")
}

func (c *Catalog) Language() string {
	return c.language
}

// Verb resolves a spoken verb. Multi-word phrases ("switch on") resolve
// through the last word the locale knows.
func (c *Catalog) Verb(word string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if canonical, ok := c.verbs[word]; ok {
		return canonical, true
	}
	fields := strings.Fields(word)
	for i := len(fields) - 1; i >= 0; i-- {
		if canonical, ok := c.verbs[fields[i]]; ok {
			return canonical, true
		}
	}
	return "", false
}

// Render fills one of the key's templates with the dialog data. Keys without
// a template are spoken as the key itself with dots replaced by spaces.
func (c *Catalog) Render(d domain.Dialog) string {
	templates := c.dialogs[d.Key]
	if len(templates) == 0 {
		return strings.ReplaceAll(d.Key, ".", " ")
	}

	tmpl := templates[0]
	if len(templates) > 1 {
		tmpl = templates[c.pick(len(templates))]
	}

	filled := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		return d.Data[m[1:len(m)-1]]
	})

	// Empty values leave gaps like "is 12 ." behind.
	filled = strings.Join(strings.Fields(filled), " ")
	return strings.ReplaceAll(filled, " .", ".")
}

// Sentences renders everything a response wants spoken, in order.
func (c *Catalog) Sentences(resp domain.Response) []string {
	out := make([]string, 0, len(resp.Dialogs)+len(resp.Utterances))
	for _, d := range resp.Dialogs {
		out = append(out, c.Render(d))
	}
	return append(out, resp.Utterances...)
}
