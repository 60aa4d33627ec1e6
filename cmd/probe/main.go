// Command lg-probe is the reference client agent: it computes the device
// fingerprint and checks license authorization at program startup. When the
// device is not authorized it files an activation request and exits nonzero
// so the wrapping program can refuse to start.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type pingResponse struct {
	Authorized bool   `json:"authorized"`
	Reason     string `json:"reason,omitempty"`
}

type activationResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "licensegate server URL")
	program := flag.String("program", "", "program code (required)")
	note := flag.String("note", "automatic request", "note attached to the activation request")
	timeout := flag.Duration("timeout", 6*time.Second, "request timeout")
	flag.Parse()

	if *program == "" {
		fmt.Fprintln(os.Stderr, "missing -program")
		os.Exit(2)
	}

	hwid := fingerprint()
	fmt.Printf("hwid: %s\n", hwid)

	client := &http.Client{Timeout: *timeout}

	authorized, err := ping(client, *server, hwid, *program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ping: %v\n", err)
		os.Exit(1)
	}
	if authorized {
		fmt.Println("license authorized")
		return
	}

	fmt.Println("license not authorized, filing activation request")
	if err := requestActivation(client, *server, hwid, *program, *note); err != nil {
		fmt.Fprintf(os.Stderr, "request activation: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("activation request sent, waiting for admin approval")
	os.Exit(1)
}

func postJSON(client *http.Client, url string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

// ping asks whether this device may run the program right now.
func ping(client *http.Client, server, hwid, program string) (bool, error) {
	var out pingResponse
	status, err := postJSON(client, server+"/api/ping", map[string]string{
		"hwid": hwid, "program_code": program,
	}, &out)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("server said %d (%s)", status, out.Reason)
	}
	return out.Authorized, nil
}

// requestActivation files a pending activation request for admin review.
func requestActivation(client *http.Client, server, hwid, program, note string) error {
	var out activationResponse
	status, err := postJSON(client, server+"/api/request_activation", map[string]string{
		"hwid": hwid, "program_code": program, "note": note,
	}, &out)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !out.OK {
		return fmt.Errorf("server said %d (%s)", status, out.Reason)
	}
	return nil
}
