package clock

// MIDI system realtime status bytes emitted by the scheduler.
const (
	MsgClock byte = 0xF8 // timing clock, 24 per quarter note
	MsgStart byte = 0xFA // transport start
	MsgStop  byte = 0xFC // transport stop
)
