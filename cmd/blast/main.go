package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// blast is a small operator CLI: it submits one batch to a running blast-api
// and prints the per-recipient outcomes. Useful against cmd/mock-platform
// during development.

type sendRequest struct {
	Recipients []string          `json:"recipients"`
	Message    string            `json:"message"`
	Context    map[string]string `json:"context,omitempty"`
	Label      string            `json:"label,omitempty"`
}

type sendResponse struct {
	Total   int `json:"total"`
	Results []struct {
		Recipient string `json:"recipient"`
		Status    string `json:"status"`
	} `json:"results"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/send", "blast-api send endpoint")
	message := flag.String("message", "", "message template, e.g. 'Hi {nome}'")
	label := flag.String("label", "", "history label for the batch")
	contextKV := flag.String("context", "", "comma-separated placeholder values, e.g. nome=Ana,empresa=Acme")
	flag.Parse()

	recipients := flag.Args()
	if *message == "" || len(recipients) == 0 {
		fmt.Fprintln(os.Stderr, "usage: blast -message 'Hi {nome}' [-context nome=Ana] <recipient>...")
		os.Exit(2)
	}

	payload := sendRequest{
		Recipients: recipients,
		Message:    *message,
		Context:    parseContext(*contextKV),
		Label:      *label,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal request: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	// A paced batch can legitimately take many minutes; no client timeout.
	resp, err := (&http.Client{}).Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "post batch: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "blast-api returned HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "decode response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("batch finished in %s, sent today: %d\n", time.Since(start).Round(time.Second), out.Total)
	for _, r := range out.Results {
		fmt.Printf("  %-20s %s\n", r.Recipient, r.Status)
	}
}

func parseContext(s string) map[string]string {
	if s == "" {
		return nil
	}
	ctx := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		ctx[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return ctx
}
