package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func validSignal() Signal {
	return Signal{
		Time:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbol:        "AAPL",
		Action:        SignalActionBuy,
		Confidence:    0.8,
		Reason:        "RSI oversold",
		SuggestedSize: 0.02,
		StrategyName:  "rule_oversold_reversal",
	}
}

func (suite *SignalTestSuite) TestSignalValidate() {
	tests := []struct {
		name      string
		modify    func(s *Signal)
		expectErr bool
	}{
		{
			name:      "valid signal",
			modify:    func(s *Signal) {},
			expectErr: false,
		},
		{
			name:      "confidence above one",
			modify:    func(s *Signal) { s.Confidence = 1.5 },
			expectErr: true,
		},
		{
			name:      "negative confidence",
			modify:    func(s *Signal) { s.Confidence = -0.1 },
			expectErr: true,
		},
		{
			name:      "zero suggested size",
			modify:    func(s *Signal) { s.SuggestedSize = 0 },
			expectErr: true,
		},
		{
			name:      "suggested size above one",
			modify:    func(s *Signal) { s.SuggestedSize = 1.01 },
			expectErr: true,
		},
		{
			name:      "full size is allowed",
			modify:    func(s *Signal) { s.SuggestedSize = 1 },
			expectErr: false,
		},
		{
			name:      "unknown action",
			modify:    func(s *Signal) { s.Action = "SHORT" },
			expectErr: true,
		},
		{
			name:      "missing strategy name",
			modify:    func(s *Signal) { s.StrategyName = "" },
			expectErr: true,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			signal := validSignal()
			tt.modify(&signal)

			err := signal.Validate()
			if tt.expectErr {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidSignal))
			} else {
				suite.NoError(err)
			}
		})
	}
}
