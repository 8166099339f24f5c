package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/calc.go/pkg/device"
	"github.com/robotalks/calc.go/pkg/env"
	"github.com/robotalks/calc.go/pkg/service"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	dev := device.New(conf.ID, conf.MustNewEndpoint())
	dev.BlinkInterval = conf.BlinkInterval

	group := service.NewGroup(context.Background()).HandleSignals()
	publisher, err := conf.NewMonitor()
	if err != nil {
		log.Fatalln(err)
	}
	if publisher != nil {
		dev.Reporter = publisher
		group.Go(publisher)
	}
	group.Go(dev)
	if err := group.Wait(); err != nil {
		log.Fatalln(err)
	}
}
