package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"

	"simfuzz/config"
	"simfuzz/core/client"
	"simfuzz/entities"
	"simfuzz/infra/conn/tcp"
	"simfuzz/infra/utils/logger"

	_ "simfuzz/infra/metrics"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to campaign config")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Kill, os.Interrupt)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Setup(cfg.Campaign.LogLevel)

	conn, err := tcp.Dial(cfg.Module.Addr, cfg.Module.Port)
	if err != nil {
		logger.Fatalf("failed to connect to module at %s:%d: %v", cfg.Module.Addr, cfg.Module.Port, err)
	}
	defer conn.Close()

	c := client.New(conn)
	output, err := c.Initialize(cfg.Campaign)
	if err != nil {
		logger.Fatalf("failed to initialize session: %v", err)
	}
	logger.Infof("coverage map: shmem %s, %d bytes", output.Coverage.ID, output.Coverage.Size)

	rng := rand.New(rand.NewSource(rand.Int63()))
	var iteration uint64
	for ctx.Err() == nil {
		if cfg.Iterations != 0 && iteration >= cfg.Iterations {
			break
		}
		iteration++

		if err := c.Reset(); err != nil {
			logger.Fatalf("reset failed on iteration %d: %v", iteration, err)
		}

		input := make([]byte, 1+rng.Intn(cfg.MaxInputSize))
		rng.Read(input)

		reason, err := c.Run(input)
		if err != nil {
			logger.Fatalf("run failed on iteration %d: %v", iteration, err)
		}
		switch r := reason.(type) {
		case entities.Crash:
			logger.Infof("iteration %d: crash, fault %d on processor %d", iteration, r.Fault, r.Processor)
		case entities.TimeOut:
			logger.Infof("iteration %d: timeout", iteration)
		default:
			logger.Debugf("iteration %d: %v", iteration, reason)
		}
	}

	if err := c.Exit(); err != nil {
		logger.Errorf(err, "failed to send exit")
	}
	logger.Infof("campaign finished after %d iterations", iteration)
}
