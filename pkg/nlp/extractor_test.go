package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	e := NewExtractor()
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"nails keyword", "quiero hacerme las uñas", IntentNails},
		{"manicure keyword", "una manicura porfa", IntentNails},
		{"technique implies nails", "me gustaría polygel", IntentNails},
		{"hair is another service", "quiero un corte de cabello", IntentOtherService},
		{"lashes are another service", "se hacen pestañas?", IntentOtherService},
		{"explicit other service", "otro servicio", IntentOtherService},
		{"plain greeting", "hola!", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text, now).Intent)
		})
	}
}

func TestMatchService(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"quiero polygel", "Polygel"},
		{"poligel porfa", "Polygel"},
		{"semi para mí", "Semipermanente"},
		{"uñas en gel", "Semipermanente"},
		{"acrílicas", "Acrílico"},
		{"las tradicionales", "Tradicional"},
		{"press on", "Press On"},
		{"nada de eso", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.MatchService(tt.text), tt.text)
	}
}

func TestExtractRequestsPairing(t *testing.T) {
	e := NewExtractor()
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want []RequestCandidate
	}{
		{
			name: "complete pair",
			text: "quiero polygel con damaris",
			want: []RequestCandidate{{Professional: "Damaris", Service: "Polygel"}},
		},
		{
			name: "two pairs joined by y",
			text: "polygel con damaris y semipermanente con fabiola",
			want: []RequestCandidate{
				{Professional: "Damaris", Service: "Polygel"},
				{Professional: "Fabiola", Service: "Semipermanente"},
			},
		},
		{
			name: "one service replicated over two professionals",
			text: "semipermanente con damaris y fabiola",
			want: []RequestCandidate{
				{Professional: "Damaris", Service: "Semipermanente"},
				{Professional: "Fabiola", Service: "Semipermanente"},
			},
		},
		{
			name: "two services for one professional combine",
			text: "polygel y tradicional con damaris",
			want: []RequestCandidate{{Professional: "Damaris", Service: "Polygel + Tradicional"}},
		},
		{
			name: "professional only",
			text: "con fabiola por favor",
			want: []RequestCandidate{{Professional: "Fabiola"}},
		},
		{
			name: "service only",
			text: "acrílicas porfa",
			want: []RequestCandidate{{Service: "Acrílico"}},
		},
		{
			name: "nothing recognizable",
			text: "el viernes a las 9",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text, now).Requests)
		})
	}
}

func TestDetectMeridiem(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want Meridiem
	}{
		{"a las 9 de la mañana", MeridiemAM},
		{"a las 3 de la tarde", MeridiemPM},
		{"a las 9 de la noche", MeridiemPM},
		{"a las 3pm", MeridiemPM},
		{"10am", MeridiemAM},
		{"a las 12 mediodía", MeridiemPM},
		{"mañana a las 9", MeridiemNone},
		{"con damaris", MeridiemNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.DetectMeridiem(tt.text), tt.text)
	}
}

func TestMeridiemAnswer(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want Meridiem
	}{
		{"mañana", MeridiemAM},
		{"en la mañana", MeridiemAM},
		{"am", MeridiemAM},
		{"1", MeridiemAM},
		{"tarde", MeridiemPM},
		{"en la noche", MeridiemPM},
		{"pm", MeridiemPM},
		{"2", MeridiemPM},
		{"no sé", MeridiemNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.MeridiemAnswer(tt.text), tt.text)
	}
}

func TestIsAffirmative(t *testing.T) {
	e := NewExtractor()

	assert.True(t, e.IsAffirmative("sí"))
	assert.True(t, e.IsAffirmative("Si, confirmo"))
	assert.True(t, e.IsAffirmative("dale"))
	assert.True(t, e.IsAffirmative("listo"))
	assert.False(t, e.IsAffirmative("no"))
	assert.False(t, e.IsAffirmative("mejor otro día"))
	// Only an affirmative opener counts, not one buried mid-sentence.
	assert.False(t, e.IsAffirmative("no sé si quiero"))
}

func TestGreetingAndReset(t *testing.T) {
	e := NewExtractor()

	assert.True(t, e.IsGreeting("Hola!"))
	assert.True(t, e.IsGreeting("buenas tardes"))
	assert.False(t, e.IsGreeting("quiero una cita"))

	assert.True(t, e.IsReset("reiniciar"))
	assert.True(t, e.IsReset("menú"))
	assert.False(t, e.IsReset("el martes"))
}

func TestMenuAndOptionReplies(t *testing.T) {
	e := NewExtractor()

	assert.Equal(t, 1, e.MenuOption("1"))
	assert.Equal(t, 2, e.MenuOption(" 2 "))
	assert.Equal(t, 0, e.MenuOption("12"))
	assert.Equal(t, 0, e.MenuOption("quiero uñas"))

	assert.Equal(t, "Polygel", e.ServiceOption("a"))
	assert.Equal(t, "Press On", e.ServiceOption("E"))
	assert.Equal(t, "", e.ServiceOption("z"))
	assert.Equal(t, "", e.ServiceOption("ab"))

	assert.Equal(t, "Damaris", e.ProfessionalOption("1"))
	assert.Equal(t, "Fabiola", e.ProfessionalOption("2"))
	assert.Equal(t, "", e.ProfessionalOption("3"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "manana a las 3 pm", normalizeText("Mañana a las 3pm!!"))
	assert.Equal(t, "el 15/01 a las 9:30", normalizeText("¿El 15/01 a las 9:30?"))
	assert.Equal(t, "acrilico con damaris", normalizeText("Acrílico con DAMARIS"))
}
