package dmi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type parserMode int

const (
	// modeHeader reads the global fields before the first state line.
	modeHeader parserMode = iota
	// modeState fills in the state most recently opened by a state line.
	modeState
)

type descriptionParser struct {
	mode parserMode
	icon IconFile

	haveWidth  bool
	haveHeight bool

	state      IconState
	haveFrames bool
	delayLine  int
	delayText  string
}

// ParseDescription parses the text of a Description chunk.
func ParseDescription(text string) (*IconFile, error) {
	p := &descriptionParser{icon: IconFile{States: []IconState{}}}
	for i, raw := range strings.Split(text, "\n") {
		if err := p.line(i+1, strings.TrimSpace(raw)); err != nil {
			return nil, err
		}
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return &p.icon, nil
}

func (p *descriptionParser) line(n int, line string) error {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return &SyntaxError{Line: n, Text: line, Err: ErrMalformedLine}
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return &SyntaxError{Line: n, Text: line, Err: ErrMalformedLine}
	}

	var err error
	if key == "state" {
		err = p.beginState(value)
	} else if p.mode == modeHeader {
		err = p.headerField(key, value)
	} else {
		err = p.stateField(n, line, key, value)
	}
	if err != nil {
		if _, ok := err.(*SyntaxError); ok {
			return err
		}
		return &SyntaxError{Line: n, Text: line, Err: err}
	}
	return nil
}

func (p *descriptionParser) beginState(value string) error {
	name, err := unquote(value)
	if err != nil {
		return err
	}
	if p.mode == modeState {
		if err := p.closeState(); err != nil {
			return err
		}
	} else if err := p.checkDimensions(); err != nil {
		return err
	}
	p.mode = modeState
	p.state = newIconState(name)
	p.haveFrames = false
	p.delayLine = 0
	p.delayText = ""
	return nil
}

func (p *descriptionParser) headerField(key, value string) error {
	switch key {
	case "version":
		p.icon.Version = value
	case "width":
		if p.haveWidth {
			return fmt.Errorf("%w: width", ErrDuplicateField)
		}
		width, err := parseDimension(key, value)
		if err != nil {
			return err
		}
		p.icon.Width = width
		p.haveWidth = true
	case "height":
		if p.haveHeight {
			return fmt.Errorf("%w: height", ErrDuplicateField)
		}
		height, err := parseDimension(key, value)
		if err != nil {
			return err
		}
		p.icon.Height = height
		p.haveHeight = true
	case "dirs", "frames", "delay", "loop", "rewind", "movement":
		return fmt.Errorf("%w: %s before the first state", ErrMisplacedField, key)
	}
	return nil
}

func (p *descriptionParser) stateField(n int, line, key, value string) error {
	switch key {
	case "version", "width", "height":
		return fmt.Errorf("%w: %s after the first state", ErrMisplacedField, key)
	case "dirs":
		dirs, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: dirs %q", ErrInvalidValue, value)
		}
		if dirs != 1 && dirs != 4 && dirs != 8 {
			return fmt.Errorf("%w: got %d", ErrInvalidDirection, dirs)
		}
		p.state.Dirs = uint8(dirs)
	case "frames":
		frames, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: frames %q", ErrInvalidValue, value)
		}
		if frames < 1 || frames > math.MaxUint8 {
			return fmt.Errorf("%w: got %d", ErrInvalidFrameCount, frames)
		}
		p.state.Frames = uint8(frames)
		p.haveFrames = true
	case "delay":
		delays, err := parseDelays(value)
		if err != nil {
			return err
		}
		if p.haveFrames && len(delays) != int(p.state.Frames) {
			return fmt.Errorf("%w: %d delays for %d frames", ErrDelayMismatch, len(delays), p.state.Frames)
		}
		p.state.Delays = delays
		p.delayLine = n
		p.delayText = line
	case "loop":
		loop, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: loop %q", ErrInvalidValue, value)
		}
		p.state.Loop = uint8(loop)
	case "rewind":
		switch value {
		case "0":
			p.state.Rewind = false
		case "1":
			p.state.Rewind = true
		default:
			return fmt.Errorf("%w: rewind %q", ErrInvalidValue, value)
		}
	case "movement":
	}
	return nil
}

// closeState appends the open state. A later frames line can still
// disagree with an earlier delay line, so the count is checked again.
func (p *descriptionParser) closeState() error {
	if n := len(p.state.Delays); n > 0 && n != int(p.state.Frames) {
		return &SyntaxError{
			Line: p.delayLine,
			Text: p.delayText,
			Err:  fmt.Errorf("%w: %d delays for %d frames", ErrDelayMismatch, n, p.state.Frames),
		}
	}
	p.icon.States = append(p.icon.States, p.state)
	return nil
}

func (p *descriptionParser) checkDimensions() error {
	if !p.haveWidth || !p.haveHeight {
		return ErrMissingDimension
	}
	return nil
}

func (p *descriptionParser) finish() error {
	if p.mode == modeState {
		return p.closeState()
	}
	if err := p.checkDimensions(); err != nil {
		return &SyntaxError{Err: err}
	}
	return nil
}

func parseDimension(key, value string) (uint16, error) {
	n, err := strconv.ParseUint(value, 10, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidValue, key, value)
	}
	return uint16(n), nil
}

func parseDelays(value string) ([]float32, error) {
	parts := strings.Split(value, ",")
	delays := make([]float32, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		f, err := strconv.ParseFloat(part, 32)
		if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: delay %q", ErrInvalidValue, part)
		}
		delays = append(delays, float32(f))
	}
	return delays, nil
}

// unquote strips the quotes around a state name. Only \" and \\ are
// escapes; any other backslash is part of the name.
func unquote(value string) (string, error) {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return "", fmt.Errorf("%w: state name must be quoted, got %s", ErrInvalidValue, value)
	}
	inner := value[1 : len(value)-1]
	if !strings.Contains(inner, `\`) {
		return inner, nil
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) && (inner[i+1] == '"' || inner[i+1] == '\\') {
			i++
			c = inner[i]
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
