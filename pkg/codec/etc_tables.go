package codec

// Shared ETC1/ETC2 lookup tables, transcribed from the Khronos ETC1/ETC2
// specification (the same constants independently reproduced by every ETC
// decoder in the reference corpus, e.g. google/gapid's core/image/etc
// decompressor).

// etc1ModTbl holds the 8 per-subblock intensity-modifier rows used by
// individual/differential mode (ETC1's only mode, and ETC2's fallback
// mode when the differential base+delta doesn't overflow). Indexed
// [opaque][tableIndex] -> 4 signed deltas for codeword 0..3. opaque=1 is
// the path used here; opaque=0 (punch-through alpha) is not reachable
// from any format this package supports.
var etc1ModTbl = [2][8][4]int{
	{
		{0, 8, 0, -8},
		{0, 17, 0, -17},
		{0, 29, 0, -29},
		{0, 42, 0, -42},
		{0, 60, 0, -60},
		{0, 80, 0, -80},
		{0, 106, 0, -106},
		{0, 183, 0, -183},
	},
	{
		{2, 8, -2, -8},
		{5, 17, -5, -17},
		{9, 29, -9, -29},
		{13, 42, -13, -42},
		{18, 60, -18, -60},
		{24, 80, -24, -80},
		{33, 106, -33, -106},
		{47, 183, -47, -183},
	},
}

// etc2HTModTbl holds the 8 intensity modifiers used by ETC2's T-mode and
// H-mode (a single shared magnitude added/subtracted from two base
// colors, rather than per-codeword asymmetric deltas).
var etc2HTModTbl = [8]int{3, 6, 11, 16, 23, 32, 41, 64}

// etc1DiffTbl maps a differential-mode 3-bit delta field to its signed
// value.
var etc1DiffTbl = [8]int{0, 1, 2, 3, -4, -3, -2, -1}

// etc1FlipTbl[flip][i] gives the sub-block (0 or 1) pixel i belongs to,
// where i is the block-scan pixel index (x outer, y inner; see
// pkg/blocklayout).
var etc1FlipTbl = [2][16]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
}

// eacAlphaModTbl holds the 16 base-and-multiplier intensity tables shared
// by the ETC2 alpha word and the EAC R11/RG11 single-channel words.
var eacAlphaModTbl = [16][8]int{
	{-3, -6, -9, -15, 2, 5, 8, 14},
	{-3, -7, -10, -13, 2, 6, 9, 12},
	{-2, -5, -8, -13, 1, 4, 7, 12},
	{-2, -4, -6, -13, 1, 3, 5, 12},
	{-3, -6, -8, -12, 2, 5, 7, 11},
	{-3, -7, -9, -11, 2, 6, 8, 10},
	{-4, -7, -8, -11, 3, 6, 7, 10},
	{-3, -5, -8, -11, 2, 4, 7, 10},
	{-2, -6, -8, -10, 1, 5, 7, 9},
	{-2, -5, -8, -10, 1, 4, 7, 9},
	{-2, -4, -8, -10, 1, 3, 7, 9},
	{-2, -5, -7, -10, 1, 4, 6, 9},
	{-3, -4, -7, -10, 2, 3, 6, 9},
	{-1, -2, -3, -10, 0, 1, 2, 9},
	{-4, -6, -8, -9, 3, 5, 7, 8},
	{-3, -5, -7, -9, 2, 4, 6, 8},
}

func expand(bits, n int) int {
	// Replicate the top bits to fill out to 8 bits, e.g. a 5-bit value
	// v expands as (v<<3)|(v>>2).
	shift := 8 - n
	return (bits << uint(shift)) | (bits >> uint(2*n-8))
}

func expand4to8(v int) int { return (v << 4) | v }
func expand5to8(v int) int { return (v << 3) | (v >> 2) }
func expand6to8(v int) int { return (v << 2) | (v >> 4) }
func expand7to8(v int) int { return (v << 1) | (v >> 6) }

func quantizeTo(v, bits int) int {
	max := (1 << uint(bits)) - 1
	q := (v*max + 127) / 255
	return clampInt(q, 0, max)
}
