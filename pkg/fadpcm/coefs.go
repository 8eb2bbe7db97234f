package fadpcm

// coefTable holds the seven prediction modes. Entries 0, 5 and 6 predict
// nothing.
var coefTable = [7][2]int32{
	{0, 0},
	{60, 0},
	{122, 60},
	{115, 52},
	{98, 55},
	{0, 0},
	{0, 0},
}

// Coefs returns the prediction pair for a 4-bit coefficient selector.
// Selectors past 6 fold back modulo 7 (0x9 behaves as 0x2).
func Coefs(index uint8) (coef1, coef2 int32) {
	c := coefTable[index%7]
	return c[0], c[1]
}
