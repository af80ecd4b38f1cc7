package theme

type KeyState int

const (
	Idle KeyState = iota
	Sounding
	Required
	Pressed
)

type Theme interface {
	RenderKey(note uint8, state KeyState) string
	NoteName(note uint8) string
}
