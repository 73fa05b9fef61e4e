// seed_sample.go: standalone script that loads a dataset file into a running
// Endorse service through its API.
//
// Usage:
//
//	go run scripts/seed_sample.go -dataset configs/sample-dataset.yaml -api http://localhost:8700
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

type criterion struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description,omitempty"`
	Unit        string  `yaml:"unit" json:"unit,omitempty"`
	Direction   string  `yaml:"direction" json:"direction"`
	Weight      float64 `yaml:"weight" json:"weight"`
}

// influencer ids in dataset files are labels, not UUIDs, so they are not sent.
type influencer struct {
	Name       string             `yaml:"name" json:"name"`
	Category   string             `yaml:"category" json:"category,omitempty"`
	Attributes map[string]float64 `yaml:"attributes" json:"attributes"`
}

type dataset struct {
	Criteria    []criterion  `yaml:"criteria"`
	Influencers []influencer `yaml:"influencers"`
}

func main() {
	datasetPath := flag.String("dataset", "configs/sample-dataset.yaml", "path to dataset YAML file")
	apiURL := flag.String("api", "http://localhost:8700", "Endorse API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	rank := flag.Bool("rank", true, "compute a ranking after seeding")
	dryRun := flag.Bool("dry-run", false, "print the dataset without posting")
	flag.Parse()

	data, err := os.ReadFile(*datasetPath)
	if err != nil {
		log.Fatalf("read dataset: %v", err)
	}
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		log.Fatalf("parse dataset: %v", err)
	}

	log.Printf("parsed %d criteria and %d influencers from %s", len(ds.Criteria), len(ds.Influencers), *datasetPath)

	if *dryRun {
		for _, c := range ds.Criteria {
			fmt.Printf("criterion %s (%s, %s, weight=%.2f)\n", c.ID, c.Name, c.Direction, c.Weight)
		}
		for i, inf := range ds.Influencers {
			fmt.Printf("[%d] %s (category=%s, attributes=%v)\n", i+1, inf.Name, inf.Category, inf.Attributes)
		}
		return
	}

	client := &http.Client{}
	send := func(method, path string, v interface{}) (int, []byte, error) {
		var body io.Reader
		if v != nil {
			b, _ := json.Marshal(v)
			body = bytes.NewReader(b)
		}
		req, err := http.NewRequest(method, *apiURL+path, body)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-ID", *clientID)
		resp, err := client.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		out, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, out, nil
	}

	if len(ds.Criteria) > 0 {
		status, body, err := send("PUT", "/api/v1/criteria", map[string]interface{}{"criteria": ds.Criteria})
		if err != nil {
			log.Fatalf("replace criteria: %v", err)
		}
		if status != http.StatusOK {
			log.Fatalf("replace criteria: status %d: %s", status, body)
		}
		log.Printf("replaced criteria (%d)", len(ds.Criteria))
	}

	created, skipped := 0, 0
	for _, inf := range ds.Influencers {
		status, body, err := send("POST", "/api/v1/influencers", inf)
		if err != nil {
			log.Printf("skip %q: %v", inf.Name, err)
			skipped++
			continue
		}
		if status == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d: %s", inf.Name, status, body)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)

	if !*rank {
		return
	}
	status, body, err := send("POST", "/api/v1/ranking", nil)
	if err != nil {
		log.Fatalf("rank: %v", err)
	}
	if status != http.StatusOK {
		log.Fatalf("rank: status %d: %s", status, body)
	}
	var res struct {
		Candidates []struct {
			Rank  int     `json:"rank"`
			Name  string  `json:"name"`
			Score float64 `json:"score"`
			Tier  string  `json:"tier"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Fatalf("decode ranking: %v", err)
	}
	for _, c := range res.Candidates {
		fmt.Printf("%d. %s %.4f %s\n", c.Rank, c.Name, c.Score, c.Tier)
	}
}
