package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketMarkdown(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		title       string
		description string
	}{
		{
			name:        "h1 title",
			content:     "# Catálogo\n\n\nListado de productos.\n",
			title:       "Catálogo",
			description: "Listado de productos.",
		},
		{
			name:        "h2 title",
			content:     "## Filtros\nPor precio.",
			title:       "Filtros",
			description: "Por precio.",
		},
		{
			name:        "plain title and crlf",
			content:     "Contacto\r\n\r\nFormulario.\r\n",
			title:       "Contacto",
			description: "Formulario.",
		},
		{
			name:    "title only",
			content: "# Solo título",
			title:   "Solo título",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, description, err := ParseTicketMarkdown(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.description, description)
		})
	}

	t.Run("empty file", func(t *testing.T) {
		_, _, err := ParseTicketMarkdown("\n\n")
		assert.ErrorIs(t, err, ErrEmptyTicket)
	})
}

func TestDescriptionOnly(t *testing.T) {
	assert.Equal(t, "Cuerpo\n\n## Sección", DescriptionOnly("# Título\n\nCuerpo\n\n## Sección\n"))
	assert.Equal(t, "Sin título", DescriptionOnly("Sin título"))
	assert.Equal(t, "", DescriptionOnly("# Solo título\n\n"))
}
