// Package draftvalue implements the draft capital model: a fixed trade-value
// chart over the 256 selectable pick positions plus a projection formula for
// future-year picks.
package draftvalue

// ChartSize is the number of pick positions covered by the value chart.
const ChartSize = 256

// PicksPerRound is the nominal number of selections per round used for round
// math and future-pick projection.
const PicksPerRound = 32

// Round1Premium is the flat point value added when a trade moves a
// first-round slot to a participant who did not already control one, to
// account for the rookie-contract cost asymmetry of top picks.
const Round1Premium = 45.0

// chart holds the trade value of every overall pick position, 1-indexed via
// chart[overall-1]. Values are calibrated against historical pick trades and
// are strictly decreasing.
var chart = [ChartSize]float64{
	1000.00, 869.01, 796.06, 738.65, 690.38, 648.46, 611.33, 577.99,
	547.77, 520.15, 494.77, 471.32, 449.57, 429.33, 410.43, 392.74,
	376.14, 360.53, 345.82, 331.94, 318.83, 306.41, 294.65, 283.48,
	272.88, 262.80, 253.20, 244.06, 235.35, 227.03, 219.09, 211.50,
	204.24, 197.30, 190.65, 184.28, 178.18, 172.33, 166.71, 161.32,
	156.14, 151.17, 146.39, 141.79, 137.37, 133.11, 129.01, 125.07,
	121.27, 117.60, 114.07, 110.67, 107.38, 104.21, 101.16, 98.20,
	95.35, 92.60, 89.94, 87.37, 84.89, 82.48, 80.16, 77.91,
	75.74, 73.64, 71.60, 69.63, 67.73, 65.88, 64.09, 62.36,
	60.68, 59.05, 57.47, 55.94, 54.46, 53.02, 51.63, 50.28,
	48.96, 47.69, 46.45, 45.26, 44.09, 42.96, 41.86, 40.80,
	39.76, 38.76, 37.78, 36.83, 35.91, 35.01, 34.14, 33.30,
	32.47, 31.67, 30.89, 30.14, 29.40, 28.69, 27.99, 27.31,
	26.65, 26.01, 25.39, 24.78, 24.19, 23.61, 23.05, 22.51,
	21.97, 21.46, 20.95, 20.46, 19.98, 19.52, 19.06, 18.62,
	18.19, 17.77, 17.36, 16.96, 16.58, 16.20, 15.83, 15.47,
	15.12, 14.77, 14.44, 14.12, 13.80, 13.49, 13.19, 12.89,
	12.61, 12.32, 12.05, 11.78, 11.52, 11.27, 11.02, 10.78,
	10.54, 10.31, 10.09, 9.87, 9.65, 9.44, 9.24, 9.04,
	8.85, 8.66, 8.47, 8.29, 8.11, 7.94, 7.77, 7.60,
	7.44, 7.28, 7.13, 6.98, 6.83, 6.69, 6.55, 6.41,
	6.28, 6.15, 6.02, 5.89, 5.77, 5.65, 5.53, 5.42,
	5.31, 5.20, 5.09, 4.99, 4.88, 4.78, 4.69, 4.59,
	4.50, 4.41, 4.32, 4.23, 4.14, 4.06, 3.98, 3.90,
	3.82, 3.74, 3.67, 3.59, 3.52, 3.45, 3.38, 3.32,
	3.25, 3.19, 3.12, 3.06, 3.00, 2.94, 2.88, 2.83,
	2.77, 2.72, 2.66, 2.61, 2.56, 2.51, 2.46, 2.41,
	2.37, 2.32, 2.28, 2.23, 2.19, 2.15, 2.11, 2.06,
	2.03, 1.99, 1.95, 1.91, 1.87, 1.84, 1.80, 1.77,
	1.74, 1.70, 1.67, 1.64, 1.61, 1.58, 1.55, 1.52,
	1.49, 1.46, 1.43, 1.41, 1.38, 1.36, 1.33, 1.31,
	1.28, 1.26, 1.23, 1.21, 1.19, 1.17, 1.14, 1.12,
}

// ValueOf returns the trade value of an overall pick position, or 0 for
// positions outside [1, ChartSize].
func ValueOf(overall int) float64 {
	if overall < 1 || overall > ChartSize {
		return 0
	}
	return chart[overall-1]
}

// RoundOf returns the round an overall pick position falls in.
func RoundOf(overall int) int {
	return (overall + PicksPerRound - 1) / PicksPerRound
}

// FuturePickValue projects a trade value for a pick in a future draft.
// The pick is mapped to the midpoint position of its round, pushed back
// PicksPerRound positions per year of delay, capped at the end of the chart.
func FuturePickValue(round, yearsOut int) float64 {
	estimated := (round-1)*PicksPerRound + PicksPerRound/2
	estimated += yearsOut * PicksPerRound
	if estimated > ChartSize {
		estimated = ChartSize
	}
	return ValueOf(estimated)
}
