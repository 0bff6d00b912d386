package types

type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeMomentum       IndicatorType = "momentum"
	IndicatorTypeROC            IndicatorType = "roc"
	IndicatorTypeOBV            IndicatorType = "obv"
	IndicatorTypeAD             IndicatorType = "ad"
	IndicatorTypeVolatility     IndicatorType = "volatility"
)
