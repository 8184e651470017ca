package display

import "strconv"

// RGB is one LED color.
type RGB [3]uint8

// Frame is the full 8x8 matrix, row-major, row 0 at the top.
type Frame [64]RGB

// Display colors. Tempo digits are green while running, red while
// stopped; the beat ramp is white with a 50% trail.
var (
	ColorRunning = RGB{0, 255, 0}
	ColorStopped = RGB{255, 0, 0}

	colorBeat      = RGB{255, 255, 255}
	colorBeatTrail = RGB{127, 127, 127}
)

// 3x5 font for 1-2 digit tempos.
var font3x5 = map[byte][5][3]uint8{
	'0': {{1, 1, 1}, {1, 0, 1}, {1, 0, 1}, {1, 0, 1}, {1, 1, 1}},
	'1': {{0, 1, 0}, {1, 1, 0}, {0, 1, 0}, {0, 1, 0}, {1, 1, 1}},
	'2': {{1, 1, 1}, {0, 0, 1}, {1, 1, 1}, {1, 0, 0}, {1, 1, 1}},
	'3': {{1, 1, 1}, {0, 0, 1}, {1, 1, 1}, {0, 0, 1}, {1, 1, 1}},
	'4': {{1, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 0, 1}, {0, 0, 1}},
	'5': {{1, 1, 1}, {1, 0, 0}, {1, 1, 1}, {0, 0, 1}, {1, 1, 1}},
	'6': {{1, 1, 1}, {1, 0, 0}, {1, 1, 1}, {1, 0, 1}, {1, 1, 1}},
	'7': {{1, 1, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
	'8': {{1, 1, 1}, {1, 0, 1}, {1, 1, 1}, {1, 0, 1}, {1, 1, 1}},
	'9': {{1, 1, 1}, {1, 0, 1}, {1, 1, 1}, {0, 0, 1}, {1, 1, 1}},
}

// Compact 2x5 font so a 3-digit tempo fits the 8-pixel width.
var font2x5 = map[byte][5][2]uint8{
	'0': {{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}},
	'1': {{0, 1}, {1, 1}, {0, 1}, {0, 1}, {1, 1}},
	'2': {{1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, 1}},
	'3': {{1, 1}, {0, 1}, {1, 1}, {0, 1}, {1, 1}},
	'4': {{1, 1}, {1, 1}, {1, 1}, {0, 1}, {0, 1}},
	'5': {{1, 1}, {1, 0}, {1, 1}, {0, 1}, {1, 1}},
	'6': {{1, 1}, {1, 0}, {1, 1}, {1, 1}, {1, 1}},
	'7': {{1, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1}},
	'8': {{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}},
	'9': {{1, 1}, {1, 1}, {1, 1}, {0, 1}, {1, 1}},
}

// Render draws the rounded tempo (rows 0-4) and, while running, the beat
// ramp (rows 6-7) for a beat position 0-3.
func Render(bpm int, running bool, beat int) Frame {
	var f Frame

	color := ColorStopped
	if running {
		color = ColorRunning
	}

	s := strconv.Itoa(bpm)
	switch len(s) {
	case 1:
		drawDigit3(&f, s[0], 2, color)
	case 2:
		drawDigit3(&f, s[0], 0, color)
		drawDigit3(&f, s[1], 4, color)
	default:
		drawDigit2(&f, s[0], 0, color)
		drawDigit2(&f, s[1], 3, color)
		drawDigit2(&f, s[2], 6, color)
	}

	if running {
		drawBeatRamp(&f, beat)
	}
	return f
}

func drawDigit3(f *Frame, digit byte, xOff int, color RGB) {
	pattern, ok := font3x5[digit]
	if !ok {
		pattern = font3x5['0']
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 3; x++ {
			if pattern[y][x] != 0 {
				f[y*8+x+xOff] = color
			}
		}
	}
}

func drawDigit2(f *Frame, digit byte, xOff int, color RGB) {
	pattern, ok := font2x5[digit]
	if !ok {
		pattern = font2x5['0']
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 2; x++ {
			if pattern[y][x] != 0 {
				f[y*8+x+xOff] = color
			}
		}
	}
}

// drawBeatRamp lights a 2x2 box per elapsed beat on rows 6-7: the current
// beat at full brightness, earlier beats dimmed.
func drawBeatRamp(f *Frame, beat int) {
	for box := 0; box <= beat && box < 4; box++ {
		color := colorBeatTrail
		if box == beat {
			color = colorBeat
		}
		for y := 6; y < 8; y++ {
			for x := 0; x < 2; x++ {
				f[y*8+x+box*2] = color
			}
		}
	}
}
