package interactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuChoices(t *testing.T) {
	t.Parallel()

	choices, options := menuChoices([]MenuOption{
		{Name: "Run", Description: "Run selected tests"},
		{Name: "List", Description: "List registered tests"},
	})

	assert.Equal(t, []string{"Run - Run selected tests", "List - List registered tests", "Exit"}, choices)
	require.Len(t, options, 2)
	assert.Equal(t, "List", options["List - List registered tests"].Name)
}

func TestSelectTags_NoTags(t *testing.T) {
	t.Parallel()

	selected, err := SelectTags(nil)
	require.NoError(t, err)
	assert.Nil(t, selected)
}
