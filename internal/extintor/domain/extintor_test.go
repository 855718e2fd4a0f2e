package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fecha(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestNewExtintor_Validation(t *testing.T) {
	e, err := NewExtintor(" a-001 ", TipoABC, 5, "Melisam", fecha("2024-01-10"), fecha("2025-01-10"), nil)
	require.NoError(t, err)
	assert.Equal(t, "A-001", e.Codigo)
	assert.True(t, e.Activo)

	cases := map[string]func() error{
		"sin codigo": func() error {
			_, err := NewExtintor("", TipoABC, 5, "", fecha("2024-01-10"), fecha("2025-01-10"), nil)
			return err
		},
		"tipo desconocido": func() error {
			_, err := NewExtintor("A", Tipo("XYZ"), 5, "", fecha("2024-01-10"), fecha("2025-01-10"), nil)
			return err
		},
		"capacidad cero": func() error {
			_, err := NewExtintor("A", TipoCO2, 0, "", fecha("2024-01-10"), fecha("2025-01-10"), nil)
			return err
		},
		"vence antes de fabricarse": func() error {
			_, err := NewExtintor("A", TipoCO2, 3.5, "", fecha("2025-01-10"), fecha("2024-01-10"), nil)
			return err
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, fn(), ErrInvalidExtintor)
		})
	}
}

func TestParseTipo(t *testing.T) {
	tipo, err := ParseTipo(" agua ")
	require.NoError(t, err)
	assert.Equal(t, TipoAgua, tipo)

	_, err = ParseTipo("espuma")
	assert.ErrorIs(t, err, ErrInvalidExtintor)
}

func TestVencimiento(t *testing.T) {
	e := &Extintor{FechaVencimiento: fecha("2025-03-10")}

	assert.Equal(t, 9, e.DiasParaVencer(fecha("2025-03-01")))
	assert.Equal(t, 0, e.DiasParaVencer(fecha("2025-03-10").Add(15*time.Hour)))
	assert.False(t, e.Vencido(fecha("2025-03-10").Add(23*time.Hour)), "vence al terminar el día")
	assert.True(t, e.Vencido(fecha("2025-03-11")))

	assert.Equal(t, "vigente", e.Estado(fecha("2025-01-01"), 30))
	assert.Equal(t, "por_vencer", e.Estado(fecha("2025-03-01"), 30))
	assert.Equal(t, "vencido", e.Estado(fecha("2025-04-01"), 30))
}

func TestRecargar(t *testing.T) {
	e := &Extintor{FechaVencimiento: fecha("2025-03-10")}
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	e.Recargar(now)
	require.NotNil(t, e.UltimaCarga)
	assert.Equal(t, now, *e.UltimaCarga)
	assert.Equal(t, fecha("2026-04-02").Add(10*time.Hour), e.FechaVencimiento)
	assert.False(t, e.Vencido(now))
	assert.Equal(t, now, e.UpdatedAt)
}
