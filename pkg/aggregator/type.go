package aggregator

// Result reports what one AggregateAndCleanup run wrote.
type Result struct {
	HourStart           int64
	LivePowerAggregated bool
	GasSnapshot         bool
	PowerSnapshot       bool
	CleanedUp           bool
}
