package testing

import (
	"math"

	"github.com/go-drift/gadget/pkg/canvas"
)

// DisplayOp is one recorded canvas call.
type DisplayOp struct {
	Op    string    `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Text  string    `json:"text,omitempty"`
	Color string    `json:"color,omitempty"`
}

// serializeOps converts recorded canvas calls, rounding arguments to two
// decimals.
func serializeOps(ops []canvas.Op) []DisplayOp {
	out := make([]DisplayOp, 0, len(ops))
	for _, op := range ops {
		d := DisplayOp{Op: op.Name, Text: op.Text}
		for _, a := range op.Args {
			d.Args = append(d.Args, round2(a))
		}
		if op.Color != 0 {
			d.Color = op.Color.String()
		}
		out = append(out, d)
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
