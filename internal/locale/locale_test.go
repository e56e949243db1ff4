package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, English, Parse("en"))
	assert.Equal(t, Ukrainian, Parse("uk"))
	assert.Equal(t, Default, Parse(""))
	assert.Equal(t, Default, Parse("fr"))
}

func TestTextFallsBackToEnglishThenKey(t *testing.T) {
	// Every English key must exist in every supported locale; a hole would
	// surface as English text in the middle of a translated screen.
	for _, l := range Supported() {
		for key := range catalogs[English] {
			assert.Contains(t, catalogs[l], key, "locale %s", l)
		}
	}

	assert.Equal(t, "message.nope", English.Text("message.nope"))
}

func TestSecretWordCoversBothCatalogs(t *testing.T) {
	for key := range secretWords[English] {
		assert.Contains(t, secretWords[Ukrainian], key)
		assert.NotEqual(t, "", Ukrainian.SecretWord(key))
	}

	// Unknown service words pass through untranslated.
	assert.Equal(t, "volcano", English.SecretWord("volcano"))
}
