package normalize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		desc     string
	}{
		{"", "", "Empty input"},
		{"   ", "", "Only whitespace"},
		{"Toast", "toast", "Case folding"},
		{"  Fried   Bread ", "fried bread", "Whitespace collapse"},
		{"Chief executive (IT recruitment)", "chief executive it recruitment", "Brackets dropped"},
		{"Emirate of Ras al-Khaimah", "emirate of ras al khaimah", "Hyphen separates words"},
		{"Pitcairn, Henderson, Ducie and Oeno Islands", "pitcairn henderson ducie and oeno islands", "Commas separate words"},
		{"Réunion", "reunion", "Accent folded"},
		{"Country of Curaçao", "country of curacao", "Cedilla folded"},
		{"Åland Islands", "aland islands", "Ring folded"},
		{"O'Neil", "oneil", "Apostrophe joins"},
		{"O’Neil", "oneil", "Curly apostrophe joins"},
		{"Chief executive (health authority: hospital service)", "chief executive health authority hospital service", "Colon separates words"},
		{"a/b\\c_d", "a b c d", "Path separators"},
		{"Word2Vec", "word2vec", "Digits kept"},
		{"!!!", "", "Only punctuation"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, String(tc.input))
		})
	}
}

func TestStringIdempotent(t *testing.T) {
	for _, s := range []string{"Saint Barthélemy", "Chief executive (PO)", "Tristan da Cunha"} {
		once := String(s)
		assert.Equal(t, once, String(once), "normalizing twice changed %q", s)
	}
}

func TestFields(t *testing.T) {
	assert.Nil(t, Fields(" ,; "))
	assert.Equal(t, []string{"scrambled", "eggs"}, Fields("Scrambled-Eggs"))
}

func TestStringConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := String("Saint Barthélemy"); got != "saint barthelemy" {
					t.Errorf("unexpected normalization %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
