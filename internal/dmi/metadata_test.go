package dmi

import (
	"errors"
	"reflect"
	"testing"
)

const header = "# BEGIN DMI\nversion = 4.0\n\twidth = 32\n\theight = 32\n"

func TestParseDescription(t *testing.T) {
	text := header + `state = "walk"
	dirs = 4
	frames = 3
	delay = 1,2,0.5
	loop = 2
	rewind = 1
	movement = 0
state = "idle"
	dirs = 8
# END DMI
`
	icon, err := ParseDescription(text)
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	want := &IconFile{
		Version: "4.0",
		Width:   32,
		Height:  32,
		States: []IconState{
			{Name: "walk", Dirs: 4, Frames: 3, Rewind: true, Loop: 2, Delays: []float32{1, 2, 0.5}},
			{Name: "idle", Dirs: 8, Frames: 1, Delays: []float32{}},
		},
	}
	if !reflect.DeepEqual(icon, want) {
		t.Fatalf("icon = %+v\nwant %+v", icon, want)
	}
}

func TestParseDescriptionDefaults(t *testing.T) {
	icon, err := ParseDescription(header + "state = \"idle\"\n")
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	want := IconState{Name: "idle", Dirs: 1, Frames: 1, Rewind: false, Loop: 0, Delays: []float32{}}
	if len(icon.States) != 1 || !reflect.DeepEqual(icon.States[0], want) {
		t.Fatalf("states = %+v, want [%+v]", icon.States, want)
	}
}

func TestParseDescriptionDuplicateNames(t *testing.T) {
	text := header + "state = \"a\"\n\tframes = 2\nstate = \"a\"\n\tdirs = 4\nstate = \"\"\nstate = \"\"\n"
	icon, err := ParseDescription(text)
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	if len(icon.States) != 4 {
		t.Fatalf("got %d states, want 4", len(icon.States))
	}
	if icon.States[0].Frames != 2 || icon.States[0].Dirs != 1 {
		t.Fatalf("first state = %+v", icon.States[0])
	}
	if icon.States[1].Frames != 1 || icon.States[1].Dirs != 4 {
		t.Fatalf("second state = %+v", icon.States[1])
	}
	if icon.States[2].Name != "" || icon.States[3].Name != "" {
		t.Fatalf("anonymous states = %+v", icon.States[2:])
	}
}

func TestParseDescriptionLastValueWins(t *testing.T) {
	text := header + "state = \"a\"\n\tdirs = 4\n\tdirs = 8\n\tframes = 2\n\tdelay = 1,1\n\tframes = 3\n\tdelay = 1,2,3\n\tloop = 1\n\tloop = 0\n"
	icon, err := ParseDescription(text)
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	want := IconState{Name: "a", Dirs: 8, Frames: 3, Delays: []float32{1, 2, 3}}
	if !reflect.DeepEqual(icon.States[0], want) {
		t.Fatalf("state = %+v, want %+v", icon.States[0], want)
	}
}

func TestParseDescriptionIgnoresUnknownKeys(t *testing.T) {
	text := "version = 4.0\nfuture = yes\n\twidth = 16\n\theight = 24\nstate = \"a\"\n\thotspot = 1,2,3\n\tmovement = 1\n"
	icon, err := ParseDescription(text)
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	if icon.Width != 16 || icon.Height != 24 || len(icon.States) != 1 {
		t.Fatalf("icon = %+v", icon)
	}
}

func TestParseDescriptionNoStates(t *testing.T) {
	icon, err := ParseDescription(header)
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	if icon.States == nil || len(icon.States) != 0 {
		t.Fatalf("states = %#v, want empty", icon.States)
	}
}

func TestParseDescriptionStateNames(t *testing.T) {
	cases := map[string]string{
		`state = "plain"`:         "plain",
		`state = "with space"`:    "with space",
		`state = "quote\"inside"`: `quote"inside`,
		`state = "back\slash"`:    `back\slash`,
		`state = "eq = sign"`:     "eq = sign",
		`state = "tab\tname"`:     `tab\tname`,
		`state = "new\nline"`:     `new\nline`,
		`state = "two\\slashes"`:  `two\slashes`,
		`state = "\u00e9"`:        `\u00e9`,
	}
	for line, want := range cases {
		icon, err := ParseDescription(header + line + "\n")
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		if got := icon.States[0].Name; got != want {
			t.Fatalf("%s: name = %q, want %q", line, got, want)
		}
	}
}

func TestParseDescriptionNameRoundTrip(t *testing.T) {
	want := IconFile{Version: "4.0", Width: 32, Height: 32, States: []IconState{
		{Name: `say "hi"`, Dirs: 1, Frames: 1, Delays: []float32{}},
		{Name: `C:\icons\tab\t`, Dirs: 1, Frames: 1, Delays: []float32{}},
		{Name: "trailing\\", Dirs: 1, Frames: 1, Delays: []float32{}},
	}}
	icon, err := ParseDescription(encodeDescription(want))
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	if !reflect.DeepEqual(*icon, want) {
		t.Fatalf("icon = %+v\nwant %+v", *icon, want)
	}
}

func TestParseDescriptionErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
		line int
	}{
		{"delay shorter than frames", header + "state = \"a\"\n\tframes = 3\n\tdelay = 1,1\n", ErrDelayMismatch, 7},
		{"frames changed after delay", header + "state = \"a\"\n\tdelay = 1,1\n\tframes = 3\nstate = \"b\"\n", ErrDelayMismatch, 6},
		{"delay before frames at end", header + "state = \"a\"\n\tdelay = 1,1\n", ErrDelayMismatch, 6},
		{"dirs six", header + "state = \"a\"\n\tdirs = 6\n", ErrInvalidDirection, 6},
		{"dirs zero", header + "state = \"a\"\n\tdirs = 0\n", ErrInvalidDirection, 6},
		{"dirs overflow", header + "state = \"a\"\n\tdirs = 256\n", ErrInvalidDirection, 6},
		{"dirs huge", header + "state = \"a\"\n\tdirs = 18446744073709551615\n", ErrInvalidDirection, 6},
		{"dirs text", header + "state = \"a\"\n\tdirs = many\n", ErrInvalidValue, 6},
		{"frames zero", header + "state = \"a\"\n\tframes = 0\n", ErrInvalidFrameCount, 6},
		{"frames overflow", header + "state = \"a\"\n\tframes = 256\n", ErrInvalidFrameCount, 6},
		{"negative delay", header + "state = \"a\"\n\tdelay = -1\n", ErrInvalidValue, 6},
		{"empty delay item", header + "state = \"a\"\n\tframes = 2\n\tdelay = 1,\n", ErrInvalidValue, 7},
		{"loop overflow", header + "state = \"a\"\n\tloop = 300\n", ErrInvalidValue, 6},
		{"rewind two", header + "state = \"a\"\n\trewind = 2\n", ErrInvalidValue, 6},
		{"unquoted state", header + "state = a\n", ErrInvalidValue, 5},
		{"no equals", header + "state = \"a\"\n\tdirs 4\n", ErrMalformedLine, 6},
		{"empty key", header + "= 4\n", ErrMalformedLine, 5},
		{"dirs before state", header + "dirs = 4\n", ErrMisplacedField, 5},
		{"width after state", header + "state = \"a\"\n\twidth = 32\n", ErrMisplacedField, 6},
		{"duplicate width", header + "width = 16\n", ErrDuplicateField, 5},
		{"zero height", "version = 4.0\nwidth = 32\nheight = 0\n", ErrInvalidValue, 3},
		{"missing height at state", "version = 4.0\nwidth = 32\nstate = \"a\"\n", ErrMissingDimension, 3},
		{"missing width at end", "version = 4.0\nheight = 32\n", ErrMissingDimension, 0},
		{"empty text", "", ErrMissingDimension, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDescription(tc.text)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("err = %T, want *SyntaxError", err)
			}
			if syntaxErr.Line != tc.line {
				t.Fatalf("line = %d, want %d (%v)", syntaxErr.Line, tc.line, err)
			}
			if tc.line > 0 && syntaxErr.Text == "" {
				t.Fatalf("missing offending line text: %v", err)
			}
		})
	}
}

func TestSpriteHelpers(t *testing.T) {
	icon := sampleIcon()
	if got := icon.SpriteCount(); got != 10 {
		t.Fatalf("SpriteCount = %d, want 10", got)
	}
	if got := icon.SpriteOffsets(); !reflect.DeepEqual(got, []int{0, 1, 9}) {
		t.Fatalf("SpriteOffsets = %v", got)
	}
	walk := icon.States[1]
	if walk.TotalDelay() != 3.5 || walk.Looping() {
		t.Fatalf("walk TotalDelay=%v Looping=%v", walk.TotalDelay(), walk.Looping())
	}
	idle := icon.States[0]
	if idle.TotalDelay() != 1 || !idle.Looping() {
		t.Fatalf("idle TotalDelay=%v Looping=%v", idle.TotalDelay(), idle.Looping())
	}
}
