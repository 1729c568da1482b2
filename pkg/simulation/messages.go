package simulation

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages understood by FlockActor:
//
//	*durationpb.Duration  advance the flock by that much simulated time
//	*emptypb.Empty        respawn the population
//	*structpb.Struct      control message, dispatched on its "kind" field
const (
	kindField = "kind"

	KindResize    = "resize"
	KindStrengths = "strengths"
	KindStats     = "stats"
)

// NewTick returns the message advancing the flock by dt.
func NewTick(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

// NewReset returns the message respawning every agent.
func NewReset() *emptypb.Empty {
	return &emptypb.Empty{}
}

// NewResize asks the flock to use a width x height world from the next tick.
func NewResize(width, height float64) *structpb.Struct {
	return mustStruct(map[string]any{
		kindField: KindResize,
		"width":   width,
		"height":  height,
	})
}

// Strengths are the weights of the three standard flocking terms.
type Strengths struct {
	Separation float64
	Alignment  float64
	Cohesion   float64
}

// NewSetStrengths retunes the standard role weights.
func NewSetStrengths(s Strengths) *structpb.Struct {
	return mustStruct(map[string]any{
		kindField:    KindStrengths,
		"separation": s.Separation,
		"alignment":  s.Alignment,
		"cohesion":   s.Cohesion,
	})
}

// NewStatsRequest asks the flock for its Stats; the reply is a *structpb.Struct.
func NewStatsRequest() *structpb.Struct {
	return mustStruct(map[string]any{kindField: KindStats})
}

// Kind returns the "kind" field of a control message.
func Kind(msg *structpb.Struct) string {
	return msg.GetFields()[kindField].GetStringValue()
}

func number(msg *structpb.Struct, name string) (float64, error) {
	v, ok := msg.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%s message: missing field %q", Kind(msg), name)
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return 0, fmt.Errorf("%s message: field %q is not a number", Kind(msg), name)
	}
	return v.GetNumberValue(), nil
}

// ParseResize extracts the dimensions of a resize message.
func ParseResize(msg *structpb.Struct) (width, height float64, err error) {
	if width, err = number(msg, "width"); err != nil {
		return 0, 0, err
	}
	if height, err = number(msg, "height"); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// ParseStrengths extracts the weights of a strengths message.
func ParseStrengths(msg *structpb.Struct) (Strengths, error) {
	var s Strengths
	var err error
	if s.Separation, err = number(msg, "separation"); err != nil {
		return Strengths{}, err
	}
	if s.Alignment, err = number(msg, "alignment"); err != nil {
		return Strengths{}, err
	}
	if s.Cohesion, err = number(msg, "cohesion"); err != nil {
		return Strengths{}, err
	}
	return s, nil
}

// Stats is the reply to a stats request.
type Stats struct {
	Ticks     uint64
	Standard  int
	Predators int
	Width     float64
	Height    float64
	AvgStep   time.Duration // mean wall time of Stepper.Step
}

// ToProto encodes s as the reply to a stats request.
func (s Stats) ToProto() *structpb.Struct {
	return mustStruct(map[string]any{
		kindField:   KindStats,
		"ticks":     s.Ticks,
		"standard":  s.Standard,
		"predators": s.Predators,
		"width":     s.Width,
		"height":    s.Height,
		"avgStepNs": s.AvgStep.Nanoseconds(),
	})
}

// StatsFromProto decodes a stats reply.
func StatsFromProto(msg *structpb.Struct) (Stats, error) {
	if k := Kind(msg); k != KindStats {
		return Stats{}, fmt.Errorf("unexpected reply kind %q", k)
	}
	f := msg.GetFields()
	return Stats{
		Ticks:     uint64(f["ticks"].GetNumberValue()),
		Standard:  int(f["standard"].GetNumberValue()),
		Predators: int(f["predators"].GetNumberValue()),
		Width:     f["width"].GetNumberValue(),
		Height:    f["height"].GetNumberValue(),
		AvgStep:   time.Duration(f["avgStepNs"].GetNumberValue()),
	}, nil
}

// mustStruct only receives the scalar types structpb.NewValue accepts.
func mustStruct(m map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(m)
	if err != nil {
		panic(fmt.Sprintf("building control message: %v", err))
	}
	return s
}
