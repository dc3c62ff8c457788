package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

var errBoom = errors.New("boom")

type fakeSource struct {
	fps     float64
	frames  int
	width   int
	height  int
	failAt  int // -1 — без отказа
	openErr error

	mu     sync.Mutex
	closed int
}

func newFakeSource(frames int) *fakeSource {
	return &fakeSource{fps: 25, frames: frames, width: 640, height: 480, failAt: -1}
}

func (s *fakeSource) Open(ctx context.Context, path string) (port.FrameStream, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &fakeStream{src: s}, nil
}

func (s *fakeSource) closedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeStream struct {
	src  *fakeSource
	next int
}

func (st *fakeStream) FPS() float64 { return st.src.fps }

func (st *fakeStream) Next(ctx context.Context) (entity.Frame, error) {
	if st.next == st.src.failAt {
		return entity.Frame{}, errBoom
	}
	if st.next >= st.src.frames {
		return entity.Frame{}, io.EOF
	}
	st.next++
	return entity.Frame{Width: st.src.width, Height: st.src.height}, nil
}

func (st *fakeStream) Close() error {
	st.src.mu.Lock()
	st.src.closed++
	st.src.mu.Unlock()
	return nil
}

// fakePoses отдаёт заранее заданные точки по номеру вызова.
type fakePoses struct {
	space    entity.CoordinateSpace
	fixtures []entity.KeypointFrame
	failAt   int

	mu    sync.Mutex
	calls int
}

func (p *fakePoses) Space() entity.CoordinateSpace { return p.space }

func (p *fakePoses) Infer(ctx context.Context, frame entity.Frame) (entity.KeypointFrame, error) {
	p.mu.Lock()
	i := p.calls
	p.calls++
	p.mu.Unlock()

	if i == p.failAt {
		return nil, errBoom
	}
	if i < len(p.fixtures) {
		return p.fixtures[i], nil
	}
	return entity.KeypointFrame{}, nil
}

type vote struct {
	label string
	conf  float64
	ok    bool
}

type fakeClassifier struct {
	votes  []vote
	failAt int

	mu    sync.Mutex
	calls int
}

func (c *fakeClassifier) Classify(ctx context.Context, frame entity.Frame) (entity.Prediction, bool, error) {
	c.mu.Lock()
	i := c.calls
	c.calls++
	c.mu.Unlock()

	if i == c.failAt {
		return entity.Prediction{}, false, errBoom
	}
	if i >= len(c.votes) || !c.votes[i].ok {
		return entity.Prediction{}, false, nil
	}
	return entity.Prediction{Label: c.votes[i].label, Confidence: c.votes[i].conf}, true, nil
}
