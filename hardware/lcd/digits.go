package lcd

// Big digit font: each digit is 3x2 cells composed from 8 custom CGRAM
// glyphs (partial block shapes). Upload BigGlyphs once at startup, then
// compose lines with BigDigit.

const (
	glyphLT byte = iota // left top corner
	glyphUB             // upper bar
	glyphRT             // right top corner
	glyphLL             // left lower corner
	glyphLB             // lower bar
	glyphLR             // right lower corner
	glyphMB             // middle bar
	glyphBlock
)

const bigSpace byte = ' '

// BigDigitWidth includes one blank separator column.
const BigDigitWidth = 4

var BigGlyphs = [8][8]byte{
	{0x07, 0x0f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f}, // LT
	{0x1f, 0x1f, 0x1f, 0x00, 0x00, 0x00, 0x00, 0x00}, // UB
	{0x1c, 0x1e, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f}, // RT
	{0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x0f, 0x07}, // LL
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x1f, 0x1f, 0x1f}, // LB
	{0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1e, 0x1c}, // LR
	{0x1f, 0x1f, 0x1f, 0x00, 0x00, 0x00, 0x1f, 0x1f}, // MB
	{0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f}, // block
}

// cell layout per digit, top row then bottom row
var bigDigits = [10][2][3]byte{
	{{glyphLT, glyphUB, glyphRT}, {glyphLL, glyphLB, glyphLR}},          // 0
	{{glyphUB, glyphRT, bigSpace}, {glyphLB, glyphBlock, glyphLB}},      // 1
	{{glyphMB, glyphMB, glyphRT}, {glyphLL, glyphLB, glyphLB}},          // 2
	{{glyphMB, glyphMB, glyphRT}, {glyphLB, glyphLB, glyphLR}},          // 3
	{{glyphLL, glyphLB, glyphBlock}, {bigSpace, bigSpace, glyphBlock}},  // 4
	{{glyphLL, glyphMB, glyphMB}, {glyphLB, glyphLB, glyphLR}},          // 5
	{{glyphLT, glyphMB, glyphMB}, {glyphLL, glyphLB, glyphLR}},          // 6
	{{glyphUB, glyphUB, glyphRT}, {bigSpace, bigSpace, glyphBlock}},     // 7
	{{glyphLT, glyphMB, glyphRT}, {glyphLL, glyphLB, glyphLR}},          // 8
	{{glyphLT, glyphMB, glyphRT}, {bigSpace, bigSpace, glyphBlock}},     // 9
}

// BigDigit copies digit d (0..9) into both line buffers at column x.
// Out of range input is left blank.
func BigDigit(l1, l2 []byte, d int, x int) {
	if d < 0 || d > 9 {
		return
	}
	for i := 0; i < 3; i++ {
		if x+i >= len(l1) || x+i >= len(l2) {
			break
		}
		l1[x+i] = bigDigits[d][0][i]
		l2[x+i] = bigDigits[d][1][i]
	}
}

// BigNumber renders a two-digit number with leading zero.
func BigNumber(l1, l2 []byte, n int, x int) {
	BigDigit(l1, l2, (n/10)%10, x)
	BigDigit(l1, l2, n%10, x+BigDigitWidth)
}
