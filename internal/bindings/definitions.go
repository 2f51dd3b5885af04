package bindings

import "github.com/unkn0wn-root/mentionpad/internal/mention"

const (
	ActionSuggestNext    ActionID = "suggest_next"
	ActionSuggestPrev    ActionID = "suggest_prev"
	ActionConfirm        ActionID = "confirm_mention"
	ActionCancel         ActionID = "cancel_mention"
	ActionSubmit         ActionID = "submit"
	ActionNewline        ActionID = "newline"
	ActionDeleteBackward ActionID = "delete_backward"
	ActionDeleteForward  ActionID = "delete_forward"
	ActionCursorLeft     ActionID = "cursor_left"
	ActionCursorRight    ActionID = "cursor_right"
	ActionSelectLeft     ActionID = "select_left"
	ActionSelectRight    ActionID = "select_right"
	ActionLineStart      ActionID = "line_start"
	ActionLineEnd        ActionID = "line_end"
	ActionSendForm       ActionID = "send_form"
	ActionCopyLast       ActionID = "copy_last"
	ActionScrollUp       ActionID = "scroll_up"
	ActionScrollDown     ActionID = "scroll_down"
	ActionToggleHelp     ActionID = "toggle_help"
	ActionQuit           ActionID = "quit"
)

type definition struct {
	id          ActionID
	description string
	defaults    [][]string
	key         *mention.Key
}

func editKey(code mention.KeyCode, shift bool) *mention.Key {
	return &mention.Key{Code: code, Shift: shift}
}

// definitions lists every action with its built-in bindings. Actions with a
// key are forwarded to the mention controller; the rest belong to the host.
var definitions = []definition{
	{
		id:          ActionSuggestNext,
		description: "Next suggestion",
		defaults:    [][]string{{"down"}, {"ctrl+n"}},
		key:         editKey(mention.KeyDown, false),
	},
	{
		id:          ActionSuggestPrev,
		description: "Previous suggestion",
		defaults:    [][]string{{"up"}, {"ctrl+p"}},
		key:         editKey(mention.KeyUp, false),
	},
	{
		id:          ActionConfirm,
		description: "Insert suggestion",
		defaults:    [][]string{{"tab"}},
		key:         editKey(mention.KeyTab, false),
	},
	{
		id:          ActionCancel,
		description: "Close suggestions",
		defaults:    [][]string{{"esc"}},
		key:         editKey(mention.KeyEscape, false),
	},
	{
		id:          ActionSubmit,
		description: "Send message",
		defaults:    [][]string{{"enter"}},
		key:         editKey(mention.KeyEnter, false),
	},
	{
		id:          ActionNewline,
		description: "New line",
		defaults:    [][]string{{"alt+enter"}, {"ctrl+j"}},
		key:         editKey(mention.KeyEnter, true),
	},
	{
		id:          ActionDeleteBackward,
		description: "Delete backward",
		defaults:    [][]string{{"backspace"}, {"ctrl+h"}},
		key:         editKey(mention.KeyBackspace, false),
	},
	{
		id:          ActionDeleteForward,
		description: "Delete forward",
		defaults:    [][]string{{"delete"}, {"ctrl+d"}},
		key:         editKey(mention.KeyDelete, false),
	},
	{
		id:          ActionCursorLeft,
		description: "Cursor left",
		defaults:    [][]string{{"left"}, {"ctrl+b"}},
		key:         editKey(mention.KeyLeft, false),
	},
	{
		id:          ActionCursorRight,
		description: "Cursor right",
		defaults:    [][]string{{"right"}, {"ctrl+f"}},
		key:         editKey(mention.KeyRight, false),
	},
	{
		id:          ActionSelectLeft,
		description: "Extend selection left",
		defaults:    [][]string{{"shift+left"}},
		key:         editKey(mention.KeyLeft, true),
	},
	{
		id:          ActionSelectRight,
		description: "Extend selection right",
		defaults:    [][]string{{"shift+right"}},
		key:         editKey(mention.KeyRight, true),
	},
	{
		id:          ActionLineStart,
		description: "Line start",
		defaults:    [][]string{{"home"}, {"ctrl+a"}},
		key:         editKey(mention.KeyHome, false),
	},
	{
		id:          ActionLineEnd,
		description: "Line end",
		defaults:    [][]string{{"end"}, {"ctrl+e"}},
		key:         editKey(mention.KeyEnd, false),
	},
	{
		id:          ActionSendForm,
		description: "Send via form",
		defaults:    [][]string{{"ctrl+s"}},
	},
	{
		id:          ActionCopyLast,
		description: "Copy last message",
		defaults:    [][]string{{"ctrl+y"}},
	},
	{
		id:          ActionScrollUp,
		description: "Scroll messages up",
		defaults:    [][]string{{"pgup"}},
	},
	{
		id:          ActionScrollDown,
		description: "Scroll messages down",
		defaults:    [][]string{{"pgdown"}},
	},
	{
		id:          ActionToggleHelp,
		description: "Toggle help",
		defaults:    [][]string{{"ctrl+x", "h"}, {"f1"}},
	},
	{
		id:          ActionQuit,
		description: "Quit",
		defaults:    [][]string{{"ctrl+c"}, {"ctrl+x", "q"}},
	},
}

var definitionLookup = func() map[ActionID]definition {
	out := make(map[ActionID]definition, len(definitions))
	for _, def := range definitions {
		out[def.id] = def
	}
	return out
}()

// ControllerKey returns the mention controller key an action stands for.
func ControllerKey(action ActionID) (mention.Key, bool) {
	def, ok := definitionLookup[action]
	if !ok || def.key == nil {
		return mention.Key{}, false
	}
	return *def.key, true
}

// Describe returns the help text of an action.
func Describe(action ActionID) string {
	return definitionLookup[action].description
}
