package lectern_test

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/lecternlabs/lectern"
)

// ExampleNew demonstrates driving sessions programmatically, without the
// HTTP layer. This is the path for embedding Lectern in an existing server.
func ExampleNew() {
	svc := lectern.New()
	reg := svc.Registry()

	// 1. The presenter publishes a question.
	if err := reg.SetPage("demo", "What is 6 x 7?"); err != nil {
		log.Fatal(err)
	}

	// 2. Participants answer. Bob changes his mind; only his last answer
	// counts.
	if err := reg.Respond("demo", "ada", "42"); err != nil {
		log.Fatal(err)
	}
	if err := reg.Respond("demo", "bob", "41"); err != nil {
		log.Fatal(err)
	}
	if err := reg.Respond("demo", "bob", "42"); err != nil {
		log.Fatal(err)
	}

	// 3. The presenter reads the tally.
	page, _ := reg.Page("demo")
	responses, _ := reg.Responses("demo")

	fmt.Printf("Page: %s\n", page)
	fmt.Printf("Ada: %s\n", responses["ada"])
	fmt.Printf("Bob: %s\n", responses["bob"])
	fmt.Printf("Answers: %d\n", len(responses))
	// Output:
	// Page: What is 6 x 7?
	// Ada: 42
	// Bob: 42
	// Answers: 2
}

// ExampleService_Handler shows the service mounted as a plain http.Handler.
func ExampleService_Handler() {
	svc := lectern.New(lectern.WithoutMetrics())
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/s/demo/set_page", "text/plain", strings.NewReader("Vote now!"))
	if err != nil {
		log.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/s/demo")
	if err != nil {
		log.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Page: %s\n", page)
	// Output:
	// Status: 200
	// Page: Vote now!
}
