package monitor

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/calc.go/pkg/calc"
	"github.com/robotalks/calc.go/pkg/link/mqtt"
)

// TopicSuffix is appended to the device ID to form the transcript topic.
const TopicSuffix = "/transcript"

// Publisher publishes transcripts to MQTT. Report never blocks the line
// cycle: transcripts are dropped when the queue is full.
type Publisher struct {
	Queue  *mqtt.Queue
	Device string

	recordCh chan calc.Transcript
	seq      uint64
}

// NewPublisher creates a Publisher for device.
func NewPublisher(brokerURL, device string) (*Publisher, error) {
	opts, prefix, err := mqtt.ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID("calcmon:" + device)
	}
	return &Publisher{
		Queue:    mqtt.NewQueue(opts, prefix),
		Device:   device,
		recordCh: make(chan calc.Transcript, 16),
	}, nil
}

// Report implements calc.Reporter.
func (p *Publisher) Report(t calc.Transcript) {
	select {
	case p.recordCh <- t:
	default:
		glog.Warning("monitor queue full, transcript dropped")
	}
}

// Name implements service.Named.
func (p *Publisher) Name() string {
	return "monitor"
}

// Run implements service.Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	token := p.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	defer p.Queue.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-p.recordCh:
			p.seq++
			payload, err := NewRecord(p.Device, p.seq, t).Encode()
			if err != nil {
				glog.Errorf("encode transcript: %v", err)
				continue
			}
			p.Queue.Pub(p.Device+TopicSuffix, payload)
		}
	}
}

// Subscribe calls fn for every record published under the queue prefix.
func Subscribe(q *mqtt.Queue, fn func(Record)) *mqtt.Subscription {
	return q.Sub("+"+TopicSuffix, func(topic string, payload []byte) {
		rec, err := Decode(payload)
		if err != nil {
			glog.Warningf("%s: bad record: %v", topic, err)
			return
		}
		fn(rec)
	})
}
