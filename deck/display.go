package deck

import "golang.org/x/text/language"

const fallbackLanguage = "en"

// DisplayName returns the card's label for the preferred language,
// falling back to English and finally to the card id.
func (c Card) DisplayName(tag language.Tag) string {
	base, _ := tag.Base()
	if name, ok := c.displayNames[base.String()]; ok {
		return name
	}
	if name, ok := c.displayNames[fallbackLanguage]; ok {
		return name
	}
	return c.id
}

// ParseLocale resolves a BCP 47 locale string to a language tag,
// defaulting to English when the string is empty or malformed.
func ParseLocale(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}
