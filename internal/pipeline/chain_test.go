package pipeline

import (
	"errors"
	"testing"

	"github.com/howeecross/gainstage/internal/audio"
)

// recordingStage is a fake stage that tags frames as it sees them so tests
// can verify ordering and bypass behaviour.
type recordingStage struct {
	name      string
	out       audio.Format
	bypass    bool
	processed int
	order     *[]string
}

func (s *recordingStage) Reconfigure(in audio.Format) (audio.Format, bool, error) {
	if s.out == (audio.Format{}) {
		s.out = in
	}
	return s.out, s.bypass, nil
}

func (s *recordingStage) Process(fr *audio.Frame) (*audio.Frame, error) {
	s.processed++
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	return fr, nil
}

func testFormat() audio.Format {
	return audio.Format{SampleRate: 44100, Channels: 2, Sample: audio.Float}
}

func TestChainProcessOrder(t *testing.T) {
	var order []string
	a := &recordingStage{name: "a", order: &order}
	b := &recordingStage{name: "b", order: &order}
	chain := NewChain(nil, a, b)

	if _, err := chain.Reconfigure(testFormat()); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	fr := audio.NewFrame(testFormat(), 16)
	if _, err := chain.Push(fr); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("process order = %v, want [a b]", order)
	}
}

func TestChainDropsBypassedStage(t *testing.T) {
	a := &recordingStage{name: "a", bypass: true}
	b := &recordingStage{name: "b"}
	chain := NewChain(nil, a, b)

	if _, err := chain.Reconfigure(testFormat()); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if got := chain.ActiveStages(); got != 1 {
		t.Errorf("ActiveStages() = %d, want 1", got)
	}

	if _, err := chain.Push(audio.NewFrame(testFormat(), 16)); err != nil {
		t.Fatal(err)
	}
	if a.processed != 0 {
		t.Error("bypassed stage must not see frames")
	}
	if b.processed != 1 {
		t.Error("active stage must see frames")
	}
}

func TestChainSinkRejection(t *testing.T) {
	stage := &recordingStage{name: "a"}
	sink := SinkFunc(func(f audio.Format) bool { return f.Channels <= 2 })
	chain := NewChain(sink, stage)

	in := audio.Format{SampleRate: 48000, Channels: 6, Sample: audio.Float}
	_, err := chain.Reconfigure(in)
	if !errors.Is(err, ErrNegotiation) {
		t.Fatalf("Reconfigure: got %v, want ErrNegotiation", err)
	}
}

func TestChainNilFrameFlush(t *testing.T) {
	stage := &recordingStage{name: "a"}
	chain := NewChain(nil, stage)
	if _, err := chain.Reconfigure(testFormat()); err != nil {
		t.Fatal(err)
	}
	out, err := chain.Push(nil)
	if err != nil {
		t.Fatalf("Push(nil): %v", err)
	}
	if out != nil {
		t.Errorf("Push(nil) = %v, want nil", out)
	}
	if stage.processed != 1 {
		t.Error("flush must still pass through every stage")
	}
}
