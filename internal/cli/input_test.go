package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(out *bytes.Buffer) *InputHandler {
	reg := registry.FromDatasets(registry.Options{},
		dataset.New("breakfast", []string{"Bacon", "Eggs", "Fried Eggs", "Toast", "Raisin Toast"}),
		dataset.New("chiefs", []string{"Kirk", "Picard", "Sisko", "Janeway", "Archer"}),
	)
	return NewInputHandler(resolver.New(reg, resolver.Options{PageSize: 2}), "breakfast", 3, out)
}

func TestSuggestions(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	require.NoError(t, h.Start(strings.NewReader("eggs\n\n   \ntoast\n")))

	text := out.String()
	assert.Contains(t, text, "Found 2 suggestions for 'eggs'")
	assert.Contains(t, text, "Fried Eggs")
	assert.Contains(t, text, "Found 2 suggestions for 'toast'")
	assert.Equal(t, `2 requests on "breakfast"`, h.Summary())
}

func TestCommands(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	input := strings.Join([]string{
		":page 3",
		":page 9",
		":page x",
		":page 0",
		":page",
		":use chiefs",
		"picrad",
		":strategy simple",
		"picrad",
		":strategy magic",
		"kirk",
		":use lunch",
		"eggs",
		":dance",
	}, "\n")
	require.NoError(t, h.Start(strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "Items 3-4 of 5:")
	assert.Contains(t, text, "previous: :page 1")
	assert.Contains(t, text, "next: :page 5")
	assert.Contains(t, text, "No items from position 9")
	assert.Contains(t, text, `invalid page start "x"`)
	assert.Contains(t, text, "invalid start: 0")
	assert.Contains(t, text, "Items 1-2 of 5:")
	assert.Contains(t, text, "Found 1 suggestions for 'picrad'")
	assert.Contains(t, text, "No suggestions found for 'picrad'")
	assert.Contains(t, text, "unknown strategy")
	assert.Contains(t, text, "not found")
	assert.Contains(t, text, `unknown command "dance"`)
}
