// ABOUTME: MatchesKey compares a parsed Key against a spec string like "ctrl+shift+k".
// ABOUTME: Modifier token order in the spec is irrelevant; exactly one non-modifier token is expected.

package key

import "strings"

// namedKeys maps a spec's bare key-name token to the KeyType it denotes.
var namedKeys = map[string]KeyType{
	"enter":     KeyEnter,
	"tab":       KeyTab,
	"backtab":   KeyBackTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"escape":    KeyEscape,
}

// MatchesKey reports whether k satisfies spec, a '+'-joined set of modifier
// names ("ctrl", "shift", "alt") and exactly one key token (a name from
// namedKeys or a single printable rune), in any order.
func MatchesKey(k Key, spec string) bool {
	var wantCtrl, wantAlt, wantShift bool
	var keyToken string

	for _, part := range strings.Split(spec, "+") {
		switch strings.ToLower(part) {
		case "ctrl":
			wantCtrl = true
		case "alt":
			wantAlt = true
		case "shift":
			wantShift = true
		default:
			if keyToken != "" {
				return false // malformed spec: more than one key token
			}
			keyToken = part
		}
	}

	if k.Ctrl != wantCtrl || k.Alt != wantAlt || k.Shift != wantShift {
		return false
	}

	if kt, ok := namedKeys[strings.ToLower(keyToken)]; ok {
		return k.Type == kt
	}

	r := []rune(keyToken)
	if len(r) == 1 {
		if kt, ok := ctrlKeyTypes[r[0]]; ok && wantCtrl {
			return k.Type == kt
		}
		return k.Type == KeyRune && (k.Rune == r[0] || k.Rune == toUpperIfLetter(r[0]) || k.Rune == toLowerIfLetter(r[0]))
	}

	return false
}

func toUpperIfLetter(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func toLowerIfLetter(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
