package main

import (
	"flag"
	"log"

	"github.com/robotalks/calc.go/pkg/env"
	"github.com/robotalks/calc.go/pkg/monitor"
)

func init() {
	env.SetupMonitorFlags()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := env.NewConfig().NewMonitorQueue()
	if err != nil {
		log.Fatalln(err)
	}
	monitor.Subscribe(q, func(rec monitor.Record) {
		log.Println(rec.String())
	})
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
