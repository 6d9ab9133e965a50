package photo

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	// decoders for the formats capture devices produce
	_ "image/jpeg"
	_ "image/png"
)

// Source tells where the bytes of a Preview came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceStaged  Source = "staged"
	SourceDurable Source = "durable"
)

// Preview is the in-memory image shown to the user. It is rebuilt from the
// artifacts and never persisted.
type Preview struct {
	Data   []byte
	Format string
	Width  int
	Height int
	Source Source
}

func (p Preview) Empty() bool {
	return len(p.Data) == 0
}

func (p Preview) String() string {
	if p.Empty() {
		return "no photo"
	}
	if p.Format == "" {
		return fmt.Sprintf("%s photo, %d bytes, unreadable", p.Source, len(p.Data))
	}
	return fmt.Sprintf("%s photo, %s %dx%d, %d bytes", p.Source, p.Format, p.Width, p.Height, len(p.Data))
}

// decodePreview fully decodes b so that a truncated artifact is rejected.
func decodePreview(b []byte, src Source) (Preview, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return Preview{}, fmt.Errorf("decode %s photo: %w", src, err)
	}
	bounds := img.Bounds()

	return Preview{
		Data:   b,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Source: src,
	}, nil
}

// Feed publishes the current Preview to any number of subscribers.
// Slow subscribers only ever see the latest value.
type Feed struct {
	mu     sync.Mutex
	cur    Preview
	subs   map[int]chan Preview
	nextID int
}

func NewFeed() *Feed {
	return &Feed{cur: Preview{Source: SourceNone}, subs: make(map[int]chan Preview)}
}

func (f *Feed) Current() Preview {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

// Subscribe returns a channel primed with the current preview and a cancel
// func that closes it.
func (f *Feed) Subscribe() (<-chan Preview, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++

	ch := make(chan Preview, 1)
	ch <- f.cur
	f.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (f *Feed) publish(p Preview) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cur = p
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- p
	}
}
