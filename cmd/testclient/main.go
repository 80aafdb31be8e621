// testclient is a minimal local server for eyeballing rendered emails in a
// browser. It asks a running mailrender for each template's example request,
// renders it and serves the resulting HTML.
//
// Usage:
//
//	go run ./cmd/testclient -api http://localhost:3001/api/v1/email-templates
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
)

type templateInfo struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	ExampleRequest map[string]any `json:"exampleRequest"`
}

func main() {
	api := flag.String("api", "http://localhost:3001/api/v1/email-templates", "mailrender API base URL")
	addr := flag.String("addr", ":9999", "listen address")
	flag.Parse()
	base := strings.TrimRight(*api, "/")

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var list struct {
			Templates []templateInfo `json:"templates"`
		}
		if err := getJSON(base+"/templates", &list); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h2>Templates</h2><ul>")
		for _, t := range list.Templates {
			fmt.Fprintf(w, `<li><a href="/preview/%s">%s</a> %s</li>`,
				html.EscapeString(t.Name), html.EscapeString(t.Name), html.EscapeString(t.Description))
		}
		fmt.Fprint(w, "</ul></body></html>")
	})

	http.HandleFunc("/preview/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/preview/")
		var info templateInfo
		if err := getJSON(base+"/templates/"+name, &info); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		body, _ := json.Marshal(info.ExampleRequest)
		resp, err := http.Post(base+"/render", "application/json", bytes.NewReader(body))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		var rendered struct {
			HTML string `json:"html"`
		}
		if resp.StatusCode != http.StatusOK {
			var e json.RawMessage
			_ = json.NewDecoder(resp.Body).Decode(&e)
			log.Printf("render %s failed (%d): %s", name, resp.StatusCode, e)
			http.Error(w, string(e), resp.StatusCode)
			return
		}
		if err := json.NewDecoder(resp.Body).Decode(&rendered); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		log.Printf("rendered %s (%d bytes)", name, len(rendered.HTML))
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, rendered.HTML)
	})

	log.Printf("testclient listening on %s, previewing %s", *addr, base)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal(err)
	}
}

func getJSON(url string, v any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
