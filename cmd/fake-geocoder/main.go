// Command fake-geocoder serves the built-in gazetteer through a fake Nominatim-compatible
// API, so that the contract tests can be run without network access:
//
//	fake-geocoder --addr :8080 &
//	geocode-contract-tests --url http://localhost:8080/ --request-interval 0
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/nominatim-qa/geocode-contract-tests/fakeservice"

	"github.com/gin-gonic/gin"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	gazetteerFile := flag.String("gazetteer", "", "YAML file of places to serve instead of the built-in ones")
	quiet := flag.Bool("quiet", false, "disable request logging")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)

	gazetteer, err := loadGazetteer(*gazetteerFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var requestLog io.Writer
	if !*quiet {
		requestLog = os.Stdout
	}
	handler := fakeservice.NewHandler(gazetteer, requestLog)

	log.Printf("Serving %d places on %s", gazetteer.Len(), *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatal(err)
	}
}

func loadGazetteer(path string) (*fakeservice.Gazetteer, error) {
	if path == "" {
		return fakeservice.LoadDefaultGazetteer()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fakeservice.ParseGazetteer(data)
}
