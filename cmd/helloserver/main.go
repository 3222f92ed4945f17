// Command helloserver is a small HTTP-over-raw-TCP server that answers
// GET /KEY with a memoized, deliberately slow result, built entirely out
// of this module's own packages: internal/helloserver's cancellable
// listener, single-flight cache, and bounded worker pool.
//
// Run `curl http://ADDR/KEY` to query the server with KEY.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dijkstracula/go-concur/internal/helloserver"
)

func main() {
	addr := flag.String("addr", "localhost:7878", "address to listen on")
	workers := flag.Int64("workers", 8, "maximum number of connections handled concurrently")
	flag.Parse()

	log.Printf("run `curl http://%s/KEY` to query the server with KEY", *addr)

	listener, err := helloserver.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("shutting down")
		if err := listener.Cancel(); err != nil {
			log.Printf("cancel: %v", err)
		}
	}()

	pool := helloserver.NewPool(*workers)
	handler := helloserver.NewHandler()

	var stats helloserver.Statistics
	var statsMu sync.Mutex
	reports := make(chan helloserver.Report)

	var reporterDone sync.WaitGroup
	reporterDone.Add(1)
	go func() {
		defer reporterDone.Done()
		for r := range reports {
			log.Printf("[report] %+v", r)
			statsMu.Lock()
			stats.AddReport(r)
			statsMu.Unlock()
		}
	}()

	id := 0
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("accept: %v", err)
			continue
		}
		if conn == nil {
			break
		}
		id++
		connID := id
		pool.Execute(func() error {
			reports <- handler.HandleConn(connID, conn)
			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		log.Printf("pool: %v", err)
	}
	close(reports)
	reporterDone.Wait()

	log.Printf("[stat] misses=%d", stats.Misses())
}
