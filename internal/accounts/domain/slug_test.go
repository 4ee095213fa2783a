package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe!", "john-doe"},
		{"john-doe", "john-doe"},
		{"  John   Doe  ", "john-doe"},
		{"Zoë  Ärtz", "zoe-artz"},
		{"Crème Brûlée", "creme-brulee"},
		{"a*b+c~d.e(f)g'h\"i!j:k@l", "abcdefghijkl"},
		{"snake_case_name", "snake_case_name"},
		{"--dash--lead--", "dash-lead"},
		{"user 42", "user-42"},
		{"ＦＵＬＬ ｗｉｄｔｈ", "full-width"},
		{"東京 タワー", "東京-タワー"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, domain.Slugify(tt.in))
		})
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	inputs := []string{
		"John Doe!",
		"Zoë  Ärtz",
		"İstanbul Straße",
		"ǅemal -- Ⅻ",
		"mixed_Case-and spaces",
		"東京 タワー",
	}

	for _, in := range inputs {
		once := domain.Slugify(in)
		require.Equal(t, once, domain.Slugify(once), "input %q", in)
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	for range 10 {
		require.Equal(t, "john-doe", domain.Slugify("John Doe!"))
	}
}
