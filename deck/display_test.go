package deck

import (
	"testing"

	"golang.org/x/text/language"

	utils "github.com/tbettermann/deduction-engine/internal"
)

func TestDisplayName(t *testing.T) {
	card, err := NewCard("kitchen", Room, map[string]string{"en": "Kitchen", "de": "Küche"})
	utils.AssertNoError(t, err)

	t.Run("exact language", func(t *testing.T) {
		utils.AssertEqual(t, card.DisplayName(language.German), "Küche")
	})

	t.Run("region variants resolve to the base language", func(t *testing.T) {
		utils.AssertEqual(t, card.DisplayName(language.MustParse("de-AT")), "Küche")
	})

	t.Run("falls back to english", func(t *testing.T) {
		utils.AssertEqual(t, card.DisplayName(language.French), "Kitchen")
	})

	t.Run("falls back to the id when no names exist", func(t *testing.T) {
		bare, err := NewCard("kitchen", Room, nil)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, bare.DisplayName(language.English), "kitchen")
	})
}

func TestParseLocale(t *testing.T) {
	utils.AssertEqual(t, ParseLocale("de"), language.German)
	utils.AssertEqual(t, ParseLocale(""), language.English)
	utils.AssertEqual(t, ParseLocale("not a locale"), language.English)
}
