package transform

import (
	"errors"
	"fmt"

	"typelib-go/pkg/buffers"
	"typelib-go/pkg/strbuf"
)

// Pipeline chains transforms: Encode applies them 0..N, Decode reverses
// them N..0. Intermediate stages are staged in scratch buffers drawn from
// the pipeline's allocator.
type Pipeline struct {
	transforms []Transform
	alloc      buffers.Allocator
}

// NewPipeline requires at least one transform; use NewNoOpTransform() for an
// explicitly empty pipeline. A nil alloc means buffers.Default.
func NewPipeline(alloc buffers.Allocator, transforms ...Transform) (*Pipeline, error) {
	if len(transforms) == 0 {
		return nil, errors.New("pipeline requires at least one transform; use NewNoOpTransform() for an empty pipeline")
	}
	s := make([]Transform, len(transforms))
	copy(s, transforms)
	return &Pipeline{transforms: s, alloc: alloc}, nil
}

// Names lists the stages in encode order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.transforms))
	for i, t := range p.transforms {
		names[i] = t.Name()
	}
	return names
}

type stageFunc func(t Transform, dst *strbuf.Buffer, data []byte) error

func (p *Pipeline) run(dst *strbuf.Buffer, payload []byte, order []int, stage stageFunc, what string) error {
	cur, next := strbuf.New(p.alloc), strbuf.New(p.alloc)
	defer cur.Cleanup()
	defer next.Cleanup()

	data := payload
	for n, i := range order {
		t := p.transforms[i]
		if n == len(order)-1 {
			if err := stage(t, dst, data); err != nil {
				return fmt.Errorf("%s: transform %d (%s) failed: %w", what, i, t.Name(), err)
			}
			return nil
		}
		next.Clear()
		if err := stage(t, next, data); err != nil {
			return fmt.Errorf("%s: transform %d (%s) failed: %w", what, i, t.Name(), err)
		}
		cur, next = next, cur
		data = cur.Bytes()
	}
	return nil
}

// Encode appends the fully transformed payload to dst.
func (p *Pipeline) Encode(dst *strbuf.Buffer, payload []byte) error {
	order := make([]int, len(p.transforms))
	for i := range order {
		order[i] = i
	}
	return p.run(dst, payload, order, Transform.Apply, "encode")
}

// Decode undoes Encode, appending the original payload to dst.
func (p *Pipeline) Decode(dst *strbuf.Buffer, payload []byte) error {
	order := make([]int, len(p.transforms))
	for i := range order {
		order[i] = len(order) - 1 - i
	}
	return p.run(dst, payload, order, Transform.Reverse, "decode")
}
