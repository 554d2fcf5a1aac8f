package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Heat", "Heat"},
		{"Heat (1995)", "Heat"},
		{"Heat.1995.1080p.BluRay.x264", "Heat"},
		{"Heat_1995", "Heat"},
		{"[YTS] Heat 1995 1080p WEBRip", "Heat"},
		{"Blade Runner 2049", "Blade Runner 2049"},
		{"Wonder Woman 1984", "Wonder Woman 1984"},
		{"Wonder Woman 1984 (2020)", "Wonder Woman 1984"},
		{"Wonder.Woman.1984.2020.2160p.WEB-DL", "Wonder Woman 1984"},
		{"Heat 1995", "Heat 1995"},
		{"1917", "1917"},
		{"1917.2019.720p", "1917"},
		{"(2019)", "(2019)"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.raw))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "penelope cruz", NormalizeName("Penélope  Cruz"))
	assert.Equal(t, "jean claude van damme", NormalizeName("Jean-Claude Van Damme"))
	assert.Equal(t, "", NormalizeName("  "))
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, FoldName("États-Unis"), FoldName("ÉTATS-UNIS"))
	assert.Equal(t, "science fiction", FoldName(" Science   Fiction "))
	assert.NotEqual(t, FoldName("Etats-Unis"), FoldName("États-Unis"))
}
