// Worker process: serves WordCount.Map and WordCount.Reduce over TCP
// until killed. Stateless, so any number of calls may run concurrently.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	server "github.com/arshadvani3/mapreduce-docker/rpc_server"
	"github.com/arshadvani3/mapreduce-docker/types"
)

func main() {
	port := flag.Int("port", types.DefaultPort, "TCP port to listen on")
	flag.Parse()

	if err := server.Register(); err != nil {
		log.Fatal(err)
	}

	addr := fmt.Sprintf(":%d", *port)
	l, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("[WORKER] starting on 0.0.0.0%s ...", addr)
	server.Serve(l)
}
