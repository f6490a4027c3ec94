package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/valyala/fasthttp"
)

func StatsFunc(end <-chan bool) {
	// rolling average
	lastRequest := time.Now()
	lastRequestCount := requestCount.get()
	for {
		select {
		case <-end:
			fmt.Println("\nTerminating.")
			return
		case <-time.After(time.Second):
			timeDiff := time.Since(lastRequest).Seconds()
			curRequestCount := requestCount.get()
			requestCountDiff := curRequestCount - lastRequestCount
			rps := float64(requestCountDiff) / timeDiff

			fmt.Printf("Total Requests: %d. Requests since last checkin: %d. RPS: %f\t\t\t\t\r", curRequestCount, requestCountDiff, rps)
			lastRequest = time.Now()
			lastRequestCount = curRequestCount
		}
	}
}

func main() {
	var (
		portRange string
		verbose   string
	)
	flag.StringVar(&portRange, "p", "14000-14001", "Range of ports to start servers on, the end is exclusive")
	flag.StringVar(&verbose, "v", "info", "level of logging verbosity")
	flag.Parse()

	if err := log.SetLevelString(verbose); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	flagParts := strings.Split(portRange, "-")
	if len(flagParts) != 2 {
		log.Fatal().Msg("Invalid portRange. Format should be <int>-<int>")
	}

	startPort, err := strconv.Atoi(flagParts[0])
	if err != nil {
		log.Fatal().Msgf("Unable to parse port: %s", err)
	}

	endPort, err := strconv.Atoi(flagParts[1])
	if err != nil {
		log.Fatal().Msgf("Unable to parse port: %s", err)
	}

	r := newRouter()

	var wg sync.WaitGroup
	for i := startPort; i < endPort; i++ {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			host := fmt.Sprintf(":%d", port)
			log.Info().Str("addr", host).Msg("starting server")
			log.Fatal().Err(fasthttp.ListenAndServe(host, r.Handler)).Msg("failed to start server")
		}(i)
	}
	statsFunc := make(chan bool)

	go StatsFunc(statsFunc)
	wg.Wait()

	statsFunc <- true
	close(statsFunc)
}
