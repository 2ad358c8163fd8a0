package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
)

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{},
	}
}

type Vehicle struct {
	Plate      string `json:"plate"`
	ParkingLot string `json:"parkingLot"`
}

type entryRes struct {
	TicketID string `json:"ticketId"`
}

type exitRes struct {
	Plate            string  `json:"plate"`
	ParkingLot       string  `json:"parkingLot"`
	TotalTimeMinutes float64 `json:"totalTimeMinutes"`
	Charge           float64 `json:"charge"`
}

func main() {
	base := pflag.String("base", "http://localhost:8080", "parking service base url")
	file := pflag.String("file", "vehicles.json", "json array of {plate, parkingLot}")
	interval := pflag.Duration("interval", 5*time.Second, "pause between vehicles")
	timeout := pflag.Duration("timeout", 10*time.Second, "per request timeout")
	doExit := pflag.Bool("exit", false, "exit every ticket after all entries are in")
	pflag.Parse()

	client := NewClient(*base)

	vehicles, err := readVehicles(*file)
	if err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	ticketIDs := make([]string, 0, len(vehicles))
	for idx, v := range vehicles {
		var res entryRes
		if err := postJSON(client, "/api/parking/v1/entry", v, &res, *timeout); err != nil {
			log.Fatalf("entry %d failed: %v", idx, err)
		}
		fmt.Printf("entered %s at %s: ticket %s\n", v.Plate, v.ParkingLot, res.TicketID)
		ticketIDs = append(ticketIDs, res.TicketID)

		if idx < len(vehicles)-1 {
			<-ticker.C
		}
	}

	if !*doExit {
		return
	}

	for _, id := range ticketIDs {
		var res exitRes
		if err := postJSON(client, "/api/parking/v1/exit", map[string]string{"ticketId": id}, &res, *timeout); err != nil {
			log.Printf("exit %s failed: %v", id, err)
			continue
		}
		fmt.Printf("exited %s: %.2f minutes, charge %.2f\n", res.Plate, res.TotalTimeMinutes, res.Charge)
	}
}

func readVehicles(path string) ([]Vehicle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var vehicles []Vehicle
	if err := json.NewDecoder(f).Decode(&vehicles); err != nil {
		return nil, fmt.Errorf("%s must be a json array: %w", path, err)
	}
	return vehicles, nil
}

func postJSON(client *Client, path string, in any, out any, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return &httpError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type httpError struct {
	Code int
	Body string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("unexpected status code: %d %s", e.Code, e.Body)
}
