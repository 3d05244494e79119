// Coordinator process: fetches the corpus, streams it through the
// dispatcher across the configured workers, then reports the top-K words
// and persists the full ranked count table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/arshadvani3/mapreduce-docker/aggregate"
	"github.com/arshadvani3/mapreduce-docker/chunk"
	"github.com/arshadvani3/mapreduce-docker/config"
	"github.com/arshadvani3/mapreduce-docker/coordinator"
	"github.com/arshadvani3/mapreduce-docker/dataset"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("[COORD] ", err)
	}

	workersFlag := flag.String("workers", "", "comma-separated worker addresses (overrides env)")
	dialWait := flag.Duration("dial-wait", 30*time.Second, "how long to wait for workers to come up")
	flag.Parse()
	if *workersFlag != "" {
		cfg.Workers = strings.Split(*workersFlag, ",")
	}
	if flag.NArg() > 0 {
		cfg.DatasetURL = flag.Arg(0)
	}
	if len(cfg.Workers) == 0 {
		log.Fatal("[COORD] no workers: set WORKERS, NUM_WORKERS, or -workers")
	}
	log.Printf("[COORD] workers: %v", cfg.Workers)

	workers, err := coordinator.DialWorkers(cfg.Workers, *dialWait)
	if err != nil {
		log.Fatal("[COORD] ", err)
	}

	files, err := dataset.Fetch(cfg.DatasetURL, "txt")
	if err != nil {
		log.Fatal("[COORD] ", err)
	}

	start := time.Now()
	d := coordinator.NewDispatcher(workers, cfg)
	counts, err := d.Run(chunk.NewFileStreamer(files, cfg.ChunkBytes))
	if err != nil {
		log.Fatal("[COORD] run failed: ", err)
	}
	elapsed := time.Since(start)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("TOP %d WORDS BY FREQUENCY\n", cfg.TopK)
	fmt.Println(strings.Repeat("=", 60) + "\n")
	aggregate.PrintTop(os.Stdout, aggregate.TopK(counts, cfg.TopK))

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		log.Fatal("[COORD] ", err)
	}
	if err := aggregate.WriteTSV(out, counts); err != nil {
		log.Fatal("[COORD] ", err)
	}
	if err := out.Close(); err != nil {
		log.Fatal("[COORD] ", err)
	}

	fmt.Printf("\nSaved: %s (unique=%d)\n", cfg.OutputPath, len(counts))
	fmt.Printf("Elapsed: %.2fs\n", elapsed.Seconds())
}
