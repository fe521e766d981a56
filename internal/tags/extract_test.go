package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	text := "Run with @Anna then #coffee2go, #café and #42nd. Email me@home.org"
	got := Extract(text)
	require.Len(t, got, 4)

	assert.Equal(t, byte('@'), got[0].Marker)
	assert.Equal(t, "Anna", got[0].Word)
	assert.True(t, got[0].IsPerson())
	assert.Equal(t, "@Anna", text[got[0].Start:got[0].End])

	assert.Equal(t, "coffee2go", got[1].Word)
	assert.False(t, got[1].IsPerson())

	assert.Equal(t, "café", got[2].Word, "non-ASCII letters are part of the word")
	assert.Equal(t, "#café", text[got[2].Start:got[2].End])

	// "#42nd" is skipped: a tag must start with a letter.
	assert.Equal(t, "home", got[3].Word, "markers inside words still count")
}

func TestExtract_StopsAtNonWordCharacters(t *testing.T) {
	got := Extract("#up-hill #über_cool #Ελλάδα!")
	require.Len(t, got, 3)
	assert.Equal(t, "up", got[0].Word)
	assert.Equal(t, "über", got[1].Word)
	assert.Equal(t, "Ελλάδα", got[2].Word)
	assert.Equal(t, "ελλάδα", got[2].Name())
}

func TestExtract_Empty(t *testing.T) {
	assert.Nil(t, Extract(""))
	assert.Nil(t, Extract("no tags here # @ #1"))
}

func TestCamelCaseToSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"camelCase", "camel Case"},
		{"JohnSmith", "John Smith"},
		{"XMLHttp", "XML Http"},
		{"HTMLParserTool", "HTML Parser Tool"},
		{"mp3Player", "mp3 Player"},
		{"running", "running"},
		{"NASA", "NASA"},
		{"iPhone", "iPhone"},
		{"eBay", "eBay"},
		{"GitHub", "GitHub"},
		{"eBookReader", "eBook Reader"},
		{"xMarks", "xMarks"},
		{"aVerylongword", "a Verylongword"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CamelCaseToSpace(tt.in))
		})
	}
}

func TestCamelCaseParts(t *testing.T) {
	assert.Equal(t, []string{"machine", "Learning"}, CamelCaseParts("machineLearning"))
	assert.Equal(t, []string{"yoga"}, CamelCaseParts("yoga"))
}
