package urgency

import (
	"time"

	"golang.org/x/text/language"
)

// locales lists the supported display locales; the first entry is the
// fallback when a requested locale matches nothing.
var locales = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "Jan 2, 2006 3:04 PM MST"},
	{language.BritishEnglish, "2 Jan 2006 15:04 MST"},
	{language.German, "02.01.2006 15:04 MST"},
	{language.French, "02/01/2006 15:04 MST"},
	{language.Russian, "02.01.2006 15:04 MST"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DefaultFormatter renders absolute times in US English.
var DefaultFormatter = NewFormatter("en-US")

// Formatter renders absolute run times for one display locale.
type Formatter struct {
	locale language.Tag
	layout string
}

// NewFormatter picks the closest supported locale for a BCP 47 tag such as
// "en-GB" or "de". Unknown or malformed tags fall back to US English.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		index = 0
	}
	return Formatter{locale: locales[index].tag, layout: locales[index].layout}
}

// Locale returns the matched locale tag.
func (f Formatter) Locale() string {
	return f.locale.String()
}

// Absolute renders t in its own location.
func (f Formatter) Absolute(t time.Time) string {
	layout := f.layout
	if layout == "" {
		layout = locales[0].layout
	}
	return t.Format(layout)
}
