package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validLong() OrderRequest {
	return OrderRequest{
		Epic:         "CS.D.EURUSD.CFD.IP",
		Direction:    DirectionBuy,
		Size:         1,
		CurrencyCode: "USD",
		StopLevel:    90,
		LimitLevel:   110,
	}
}

func TestValidateLongLevels(t *testing.T) {
	tests := []struct {
		name    string
		sl, tp  float64
		entry   float64
		wantErr bool
	}{
		{"sl ниже, tp выше входа", 90, 110, 100, false},
		{"sl выше входа", 101, 110, 100, true},
		{"tp ниже входа", 90, 99, 100, true},
		{"оба перепутаны", 110, 90, 100, true},
		{"sl равен входу", 100, 110, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validLong()
			req.StopLevel = tt.sl
			req.LimitLevel = tt.tp
			err := req.Validate(tt.entry)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, KindValidation, KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateShortLevels(t *testing.T) {
	req := validLong()
	req.Direction = DirectionSell

	// для шорта всё зеркально: TP < entry < SL
	req.StopLevel = 110
	req.LimitLevel = 90
	require.NoError(t, req.Validate(100))

	req.StopLevel = 90
	req.LimitLevel = 110
	require.Error(t, req.Validate(100))
}

func TestValidateSize(t *testing.T) {
	req := validLong()
	req.Size = 0
	require.Error(t, req.Validate(100))

	req.Size = -1
	require.Error(t, req.Validate(100))
}

func TestValidateMixedFormsRejected(t *testing.T) {
	req := validLong()
	req.StopDistance = 5
	err := req.Validate(100)
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
}

func TestValidateDistancesOnly(t *testing.T) {
	req := validLong()
	req.StopLevel = 0
	req.LimitLevel = 0
	req.StopDistance = 5
	req.LimitDistance = 15
	require.NoError(t, req.Validate(100))
}

func TestValidateSingleLevelAllowed(t *testing.T) {
	// один уровень без второго — проверка сторон не применяется
	req := validLong()
	req.LimitLevel = 0
	require.NoError(t, req.Validate(100))
}

func TestValidateUnknownDirection(t *testing.T) {
	req := validLong()
	req.Direction = "HOLD"
	require.Error(t, req.Validate(100))
}
