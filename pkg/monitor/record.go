// Package monitor publishes line cycle transcripts for remote inspection.
package monitor

import (
	"fmt"

	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/calc.go/pkg/calc"
)

// Record is a transcript as seen by a monitor.
type Record struct {
	Device    string
	Seq       uint64
	Line      string
	Output    string
	OK        bool
	Truncated bool
	Reason    string
}

// NewRecord creates a Record from a Transcript.
func NewRecord(device string, seq uint64, t calc.Transcript) Record {
	r := Record{
		Device:    device,
		Seq:       seq,
		Line:      t.Line,
		Output:    t.Output,
		OK:        t.OK,
		Truncated: t.Truncated,
	}
	if t.Err != nil {
		r.Reason = t.Err.Error()
	}
	return r
}

// String formats the record in one line.
func (r Record) String() string {
	s := fmt.Sprintf("%s#%d %q => %s", r.Device, r.Seq, r.Line, r.Output)
	if r.Truncated {
		s += " (truncated)"
	}
	if r.Reason != "" {
		s += " (" + r.Reason + ")"
	}
	return s
}

// Encode serializes the record as a protobuf Struct.
func (r Record) Encode() ([]byte, error) {
	return proto.Marshal(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"device":    stringValue(r.Device),
			"seq":       {Kind: &structpb.Value_NumberValue{NumberValue: float64(r.Seq)}},
			"line":      stringValue(r.Line),
			"output":    stringValue(r.Output),
			"ok":        boolValue(r.OK),
			"truncated": boolValue(r.Truncated),
			"reason":    stringValue(r.Reason),
		},
	})
}

// Decode parses a record encoded by Encode.
func Decode(payload []byte) (Record, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return Record{}, err
	}
	if s.Fields["device"] == nil {
		return Record{}, fmt.Errorf("not a transcript record")
	}
	return Record{
		Device:    s.Fields["device"].GetStringValue(),
		Seq:       uint64(s.Fields["seq"].GetNumberValue()),
		Line:      s.Fields["line"].GetStringValue(),
		Output:    s.Fields["output"].GetStringValue(),
		OK:        s.Fields["ok"].GetBoolValue(),
		Truncated: s.Fields["truncated"].GetBoolValue(),
		Reason:    s.Fields["reason"].GetStringValue(),
	}, nil
}

func stringValue(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}

func boolValue(b bool) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_BoolValue{BoolValue: b}}
}
