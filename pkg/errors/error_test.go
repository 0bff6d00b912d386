package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func bar(symbol string, day int, close float64) types.MarketData {
	return types.MarketData{
		Symbol: symbol,
		Time:   time.Date(2024, 1, 1+day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Volume: 100,
	}
}

func (suite *ErrorTestSuite) TestErrorString() {
	suite.Equal("[501] no open position for AAPL", errors.Newf(errors.ErrCodeNoOpenPosition, "no open position for %s", "AAPL").Error())

	cause := stderrors.New("connection refused")
	err := errors.Wrap(errors.ErrCodeCollaboratorFailure, "notify run complete", cause)
	suite.Equal("[800] notify run complete: connection refused", err.Error())
	suite.Equal(cause, err.Unwrap())

	wrapped := errors.Wrapf(errors.ErrCodeQueryFailed, cause, "read %s", "bars.parquet")
	suite.Equal("[203] read bars.parquet: connection refused", wrapped.Error())
}

func (suite *ErrorTestSuite) TestSeriesValidationCarriesDataIntegrity() {
	tests := []struct {
		name   string
		series types.Series
		valid  bool
	}{
		{
			name:   "clean series",
			series: types.NewSeries("AAPL", []types.MarketData{bar("AAPL", 0, 10), bar("AAPL", 1, 11)}),
			valid:  true,
		},
		{
			name:   "non-positive close",
			series: types.NewSeries("AAPL", []types.MarketData{bar("AAPL", 0, 10), bar("AAPL", 1, 0)}),
		},
		{
			name:   "bar of another symbol",
			series: types.NewSeries("AAPL", []types.MarketData{bar("AAPL", 0, 10), bar("MSFT", 1, 11)}),
		},
		{
			name:   "repeated timestamp",
			series: types.NewSeries("AAPL", []types.MarketData{bar("AAPL", 0, 10), bar("AAPL", 0, 11)}),
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.series.Validate()
			if tt.valid {
				suite.NoError(err)
				suite.False(errors.IsDataIntegrityError(err))

				return
			}

			suite.Error(err)
			suite.Equal(errors.ErrCodeDataIntegrity, errors.GetCode(err))
			suite.True(errors.IsDataIntegrityError(err))
			suite.False(errors.IsInsufficientDataError(err))
		})
	}
}

func (suite *ErrorTestSuite) TestDataIntegritySurvivesWrapping() {
	invalid := types.NewSeries("AAPL", []types.MarketData{bar("AAPL", 0, -1)})
	err := errors.Wrap(errors.ErrCodeBacktestConfigError, "run aborted", invalid.Validate())

	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))
	suite.False(errors.HasCode(err, errors.ErrCodeDataIntegrity))
	suite.True(errors.IsDataIntegrityError(err))

	// a plain error in between ends the walk
	hidden := errors.Wrap(errors.ErrCodeBacktestConfigError, "run aborted", fmt.Errorf("opaque: %v", invalid.Validate()))
	suite.False(errors.IsDataIntegrityError(hidden))
}

func (suite *ErrorTestSuite) TestAccountErrorsAreNotFatal() {
	account := types.NewAccount(100)

	err := account.Debit(150)
	suite.True(errors.HasCode(err, errors.ErrCodeInsufficientFunds))
	suite.False(errors.IsDataIntegrityError(err))

	err = account.Credit(-1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidQuantity))
	suite.Equal(100.0, account.Cash)
}

func (suite *ErrorTestSuite) TestInsufficientData() {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "warm-up error", err: errors.NewInsufficientDataErrorf(14, 3, "AAPL", "rsi needs %d bars, got %d", 14, 3), expected: true},
		{name: "warm-up code", err: errors.New(errors.ErrCodeWarmupIncomplete, "classifier warming up"), expected: true},
		{
			name:     "wrapped warm-up code",
			err:      errors.Wrap(errors.ErrCodeWarmupIncomplete, "classifier warming up", errors.New(errors.ErrCodeClassifierSingleClass, "one class")),
			expected: true,
		},
		{name: "single class only", err: errors.New(errors.ErrCodeClassifierSingleClass, "one class"), expected: false},
		{name: "plain error", err: stderrors.New("plain"), expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, errors.IsInsufficientDataError(tt.err))
		})
	}
}

func (suite *ErrorTestSuite) TestInsufficientDataErrorMessage() {
	err := errors.NewInsufficientDataErrorf(20, 5, "AAPL", "bollinger bands need %d bars, got %d", 20, 5)

	suite.Equal("bollinger bands need 20 bars, got 5", err.Error())
	suite.Equal(20, err.Required)
	suite.Equal(5, err.Actual)
	suite.Equal("AAPL", err.Symbol)
}

func (suite *ErrorTestSuite) TestGetCodeOfUncodedError() {
	suite.Equal(errors.ErrCodeUnknown, errors.GetCode(stderrors.New("plain")))
	suite.Equal(errors.ErrCodeUnknown, errors.GetCode(nil))
}
