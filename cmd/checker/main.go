package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"frontdoor/checker"

	"github.com/joho/godotenv"
)

// Contrato de saída: 0 = todos os testes passaram, 1 = algo falhou.
// É esse código que o compose/CI consome.
func main() {
	_ = godotenv.Load()

	host := getenvDefault("TARGET_HOST", "localhost")

	cfg := checker.Config{
		HTTPBase:        fmt.Sprintf("http://%s:%s", host, getenvDefault("TARGET_PORT_HTTP", "8080")),
		TLSBase:         fmt.Sprintf("https://%s:%s", host, getenvDefault("TARGET_PORT_TLS", "8443")),
		RejectBase:      fmt.Sprintf("http://%s:%s", host, getenvDefault("TARGET_PORT_REJECT", "8081")),
		ExpectedContent: getenvDefault("EXPECTED_CONTENT", "Hello from the front door!"),
		BurstRequests:   getenvIntDefault("BURST_REQUESTS", 20),
		MaxRetries:      getenvIntDefault("MAX_RETRIES", 10),
		RetryDelay:      getenvDurationDefault("RETRY_DELAY", 2*time.Second),
		DrainWait:       getenvDurationDefault("DRAIN_WAIT", 3*time.Second),
		Timeout:         getenvDurationDefault("REQUEST_TIMEOUT", 5*time.Second),
	}

	log.Printf("starting front door conformance checks against %s", host)
	if checker.New(cfg).Run() {
		log.Printf("RESULT: ALL CHECKS PASSED")
		os.Exit(0)
	}
	log.Printf("RESULT: SOME CHECKS FAILED")
	os.Exit(1)
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
