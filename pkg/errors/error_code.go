package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSignal        ErrorCode = 102
	ErrCodeInvalidTradeRecord   ErrorCode = 103
	ErrCodeInvalidType          ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106
	ErrCodeInvalidMultiplier    ErrorCode = 107

	// Data errors (200-299)
	ErrCodeDataIntegrity         ErrorCode = 200
	ErrCodeNoDataFound           ErrorCode = 201
	ErrCodeDataSourceUnavailable ErrorCode = 202
	ErrCodeQueryFailed           ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeWarmupIncomplete       ErrorCode = 302

	// Signal and classifier errors (400-499)
	ErrCodeClassifierNotTrained  ErrorCode = 400
	ErrCodeClassifierSingleClass ErrorCode = 401
	ErrCodeFeatureMismatch       ErrorCode = 402

	// Trading errors (500-599)
	ErrCodeInsufficientFunds   ErrorCode = 500
	ErrCodeNoOpenPosition      ErrorCode = 501
	ErrCodePositionAlreadyOpen ErrorCode = 502
	ErrCodeInvalidQuantity     ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestNotInitialized ErrorCode = 600
	ErrCodeBacktestNoDatasource   ErrorCode = 601
	ErrCodeBacktestConfigError    ErrorCode = 602

	// Optimizer errors (700-799)
	ErrCodeOptimizerNoAssets       ErrorCode = 700
	ErrCodeOptimizerSeriesMismatch ErrorCode = 701
	ErrCodeOptimizerInvalidReturns ErrorCode = 702

	// Collaborator errors (800-899)
	ErrCodeCollaboratorFailure ErrorCode = 800
)
