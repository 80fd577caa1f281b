package dmi

// IconFile is the decoded Description of a DMI file. Width and Height
// are the size of a single animation cell, not of the PNG canvas.
type IconFile struct {
	Version string      `json:"version" yaml:"version" cbor:"version"`
	Width   uint16      `json:"width" yaml:"width" cbor:"width"`
	Height  uint16      `json:"height" yaml:"height" cbor:"height"`
	States  []IconState `json:"states" yaml:"states" cbor:"states"`
}

// IconState is one named animation. States are identified by position;
// names need not be unique and may be empty.
type IconState struct {
	Name   string    `json:"name" yaml:"name" cbor:"name"`
	Dirs   uint8     `json:"dirs" yaml:"dirs" cbor:"dirs"`
	Frames uint8     `json:"frames" yaml:"frames" cbor:"frames"`
	Rewind bool      `json:"rewind" yaml:"rewind" cbor:"rewind"`
	Loop   uint8     `json:"loop" yaml:"loop" cbor:"loop"`
	Delays []float32 `json:"delays" yaml:"delays" cbor:"delays"`
}

func newIconState(name string) IconState {
	return IconState{
		Name:   name,
		Dirs:   1,
		Frames: 1,
		Delays: []float32{},
	}
}

// SpriteCount is the number of cells the state occupies in the sheet.
func (s IconState) SpriteCount() int {
	return int(s.Dirs) * int(s.Frames)
}

// Looping reports whether the animation repeats forever.
func (s IconState) Looping() bool {
	return s.Loop == 0
}

// TotalDelay is the length of one pass through the animation in ticks.
// A state without explicit delays runs each frame for one tick.
func (s IconState) TotalDelay() float64 {
	if len(s.Delays) == 0 {
		return float64(s.Frames)
	}
	total := 0.0
	for _, delay := range s.Delays {
		total += float64(delay)
	}
	return total
}

func (f *IconFile) SpriteCount() int {
	total := 0
	for _, state := range f.States {
		total += state.SpriteCount()
	}
	return total
}

// SpriteOffsets returns the index of the first sheet cell of every
// state, in file order.
func (f *IconFile) SpriteOffsets() []int {
	offsets := make([]int, len(f.States))
	next := 0
	for i, state := range f.States {
		offsets[i] = next
		next += state.SpriteCount()
	}
	return offsets
}
