package types

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	suite.Suite
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (suite *AccountTestSuite) TestNewAccount() {
	account := NewAccount(10000)

	suite.Equal(10000.0, account.InitialCapital)
	suite.Equal(10000.0, account.Cash)
}

func (suite *AccountTestSuite) TestDebit() {
	tests := []struct {
		name         string
		cost         float64
		expectedCash float64
		expectedCode errors.ErrorCode
	}{
		{
			name:         "partial debit",
			cost:         5000,
			expectedCash: 5000,
		},
		{
			name:         "full debit",
			cost:         10000,
			expectedCash: 0,
		},
		{
			name:         "overdraw is refused",
			cost:         10000.01,
			expectedCash: 10000,
			expectedCode: errors.ErrCodeInsufficientFunds,
		},
		{
			name:         "negative cost",
			cost:         -1,
			expectedCash: 10000,
			expectedCode: errors.ErrCodeInvalidQuantity,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			account := NewAccount(10000)

			err := account.Debit(tt.cost)
			if tt.expectedCode != 0 {
				suite.Error(err)
				suite.True(errors.HasCode(err, tt.expectedCode))
			} else {
				suite.NoError(err)
			}

			suite.Equal(tt.expectedCash, account.Cash)
			suite.GreaterOrEqual(account.Cash, 0.0)
		})
	}
}

func (suite *AccountTestSuite) TestCredit() {
	account := NewAccount(100)

	suite.NoError(account.Credit(0.1))
	suite.NoError(account.Credit(0.2))
	suite.Equal(100.3, account.Cash)

	err := account.Credit(-5)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidQuantity))
	suite.Equal(100.3, account.Cash)
}
