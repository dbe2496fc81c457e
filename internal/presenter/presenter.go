// Package presenter holds browse.Presenter implementations that are not tied to a transport:
// a recorder that turns render calls into data, and a fan-out to several presenters.
package presenter

import "github.com/bookconnect/bookconnect-server/internal/browse"

// Op names a render instruction.
type Op string

// Render operations, one per browse.Presenter method.
const (
	OpClearList          Op = "clear_list"
	OpRenderBatch        Op = "render_batch"
	OpRenderNoResults    Op = "render_no_results"
	OpSetShowMoreLabel   Op = "set_show_more_label"
	OpSetShowMoreEnabled Op = "set_show_more_enabled"
	OpShowDetail         Op = "show_detail"
)

// Instruction is one recorded presenter call. Only the fields for its Op are set.
type Instruction struct {
	Op        Op               `json:"op"`
	Items     []browse.Preview `json:"items,omitempty"`
	Message   string           `json:"message,omitempty"`
	Label     string           `json:"label,omitempty"`
	Remaining *int             `json:"remaining,omitempty"`
	Enabled   *bool            `json:"enabled,omitempty"`
	Detail    *browse.Detail   `json:"detail,omitempty"`
}

// Recorder captures render calls in order. Not safe for concurrent use; a session
// serializes the turns that drive it.
type Recorder struct {
	instructions []Instruction
}

var _ browse.Presenter = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Take returns everything recorded since the last Take and starts over.
func (r *Recorder) Take() []Instruction {
	out := r.instructions
	r.instructions = nil
	if out == nil {
		return []Instruction{}
	}
	return out
}

// Len returns the number of pending instructions.
func (r *Recorder) Len() int { return len(r.instructions) }

func (r *Recorder) ClearList() {
	r.add(Instruction{Op: OpClearList})
}

func (r *Recorder) RenderBatch(batch []browse.Preview) {
	r.add(Instruction{Op: OpRenderBatch, Items: append([]browse.Preview(nil), batch...)})
}

func (r *Recorder) RenderNoResults(message string) {
	r.add(Instruction{Op: OpRenderNoResults, Message: message})
}

func (r *Recorder) SetShowMoreLabel(remaining int) {
	r.add(Instruction{Op: OpSetShowMoreLabel, Label: browse.ShowMoreLabel(remaining), Remaining: &remaining})
}

func (r *Recorder) SetShowMoreEnabled(enabled bool) {
	r.add(Instruction{Op: OpSetShowMoreEnabled, Enabled: &enabled})
}

func (r *Recorder) ShowDetail(detail browse.Detail) {
	r.add(Instruction{Op: OpShowDetail, Detail: &detail})
}

func (r *Recorder) add(in Instruction) {
	r.instructions = append(r.instructions, in)
}

// Multi forwards every call to each presenter in order.
type Multi []browse.Presenter

var _ browse.Presenter = Multi(nil)

// Tee combines presenters, skipping nil ones.
func Tee(ps ...browse.Presenter) Multi {
	out := make(Multi, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m Multi) ClearList() {
	for _, p := range m {
		p.ClearList()
	}
}

func (m Multi) RenderBatch(batch []browse.Preview) {
	for _, p := range m {
		p.RenderBatch(batch)
	}
}

func (m Multi) RenderNoResults(message string) {
	for _, p := range m {
		p.RenderNoResults(message)
	}
}

func (m Multi) SetShowMoreLabel(remaining int) {
	for _, p := range m {
		p.SetShowMoreLabel(remaining)
	}
}

func (m Multi) SetShowMoreEnabled(enabled bool) {
	for _, p := range m {
		p.SetShowMoreEnabled(enabled)
	}
}

func (m Multi) ShowDetail(detail browse.Detail) {
	for _, p := range m {
		p.ShowDetail(detail)
	}
}
