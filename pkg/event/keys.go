package event

// Codes delivered in KeyboardEvent.KeyCode for KeyDown and KeyUp.
// Letters and digits use their upper-case ASCII codes.
const (
	CodeCancel      uint32 = 3
	CodeBack        uint32 = 8
	CodeTab         uint32 = 9
	CodeClear       uint32 = 12
	CodeReturn      uint32 = 13
	CodeShift       uint32 = 16
	CodeControl     uint32 = 17
	CodeAlt         uint32 = 18
	CodePause       uint32 = 19
	CodeCapital     uint32 = 20
	CodeEscape      uint32 = 27
	CodeSpace       uint32 = 32
	CodePageUp      uint32 = 33
	CodePageDown    uint32 = 34
	CodeEnd         uint32 = 35
	CodeHome        uint32 = 36
	CodeLeft        uint32 = 37
	CodeUp          uint32 = 38
	CodeRight       uint32 = 39
	CodeDown        uint32 = 40
	CodeInsert      uint32 = 45
	CodeDelete      uint32 = 46
	CodeContextMenu uint32 = 93
	CodeF1          uint32 = 112
	CodeF12         uint32 = 123
)

// IsLetter reports whether code is an ASCII letter key.
func IsLetter(code uint32) bool { return code >= 'A' && code <= 'Z' }

// ControlChar maps ctrl+letter to the control character 1..26.
func ControlChar(code uint32) (uint32, bool) {
	if !IsLetter(code) {
		return 0, false
	}
	return code - 'A' + 1, true
}
