package mention

// KeyCode names a key the controller reacts to.
type KeyCode string

const (
	KeyRunes     KeyCode = "runes"
	KeyEnter     KeyCode = "enter"
	KeyTab       KeyCode = "tab"
	KeyEscape    KeyCode = "esc"
	KeyUp        KeyCode = "up"
	KeyDown      KeyCode = "down"
	KeyLeft      KeyCode = "left"
	KeyRight     KeyCode = "right"
	KeyHome      KeyCode = "home"
	KeyEnd       KeyCode = "end"
	KeyBackspace KeyCode = "backspace"
	KeyDelete    KeyCode = "delete"
)

// Key is a single key press. Text carries the typed characters for KeyRunes.
type Key struct {
	Code  KeyCode
	Shift bool
	Text  string
}

func Runes(s string) Key {
	return Key{Code: KeyRunes, Text: s}
}

func (k Key) String() string {
	name := string(k.Code)
	if k.Code == KeyRunes {
		name = k.Text
	}
	if k.Shift {
		return "shift+" + name
	}
	return name
}
