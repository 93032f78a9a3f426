// Package main provides the smoke command for post-deploy checks.
// It waits for the directory server to be healthy, then queries every configured route.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"deliverydir/internal/config"
	"deliverydir/internal/models"
)

// healthPath is the server's liveness route.
const healthPath = "/healthz"

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
)

func logInfo(msg string) {
	fmt.Printf("%s[SMOKE]%s %s\n", colorGreen, colorReset, msg)
}

func logWarn(msg string) {
	fmt.Printf("%s[SMOKE]%s %s\n", colorYellow, colorReset, msg)
}

func logError(msg string) {
	fmt.Printf("%s[SMOKE]%s %s\n", colorRed, colorReset, msg)
}

func main() {
	baseURL := flag.String("url", "", "Server base URL (default: DIRECTORY_URL or http://localhost:5001)")
	configFile := flag.String("config", "", "Path to YAML configuration file listing the routes")
	healthTimeout := flag.Duration("health-timeout", 60*time.Second, "Health check timeout")
	flag.Parse()

	url := *baseURL
	if url == "" {
		url = os.Getenv("DIRECTORY_URL")
	}

	if url == "" {
		url = "http://localhost:5001"
	}

	url = strings.TrimSuffix(url, "/")

	cfg, _, err := config.LoadOrDefault(*configFile)
	if err != nil {
		logError(fmt.Sprintf("Failed to load config: %v", err))
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	if !waitForHealth(client, url, *healthTimeout) {
		logError("Aborting - server not available")
		os.Exit(1)
	}

	failed := 0

	for _, route := range cfg.Server.Routes {
		rows, err := checkRoute(client, url+route.Path)
		if err != nil {
			logError(fmt.Sprintf("GET %s: %v", route.Path, err))
			failed++

			continue
		}

		if rows == 0 {
			logWarn(fmt.Sprintf("GET %s: 0 rows", route.Path))
		} else {
			logInfo(fmt.Sprintf("GET %s: %d rows", route.Path, rows))
		}
	}

	if failed > 0 {
		logError(fmt.Sprintf("%d of %d routes failed", failed, len(cfg.Server.Routes)))
		os.Exit(1)
	}

	logInfo("All routes healthy")
}

func waitForHealth(client *http.Client, url string, timeout time.Duration) bool {
	startTime := time.Now()
	logInfo(fmt.Sprintf("Waiting for server at %s...", url))

	for {
		resp, err := client.Get(url + healthPath)
		if err == nil {
			statusCode := resp.StatusCode
			if closeErr := resp.Body.Close(); closeErr != nil {
				logWarn(fmt.Sprintf("Failed to close response body: %v", closeErr))
			}

			if statusCode == http.StatusOK {
				logInfo("Server is ready")

				return true
			}
		}

		if time.Since(startTime) >= timeout {
			logError(fmt.Sprintf("Server not healthy within %v", timeout))

			return false
		}

		fmt.Print(".")
		time.Sleep(2 * time.Second)
	}
}

func checkRoute(client *http.Client, url string) (int, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return 0, fmt.Errorf("invalid body: %w", err)
	}

	if len(doc.Headers) != len(models.QueryHeaders) {
		return 0, fmt.Errorf("got %d headers, want %d", len(doc.Headers), len(models.QueryHeaders))
	}

	return len(doc.Rows), nil
}
