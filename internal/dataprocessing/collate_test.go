package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortPtBR(t *testing.T) {
	values := []string{"Ética Profissional", "Azul", "Água", "Comunicação", "água viva"}
	SortPtBR(values)
	assert.Equal(t, []string{"Água", "água viva", "Azul", "Comunicação", "Ética Profissional"}, values)
}
