package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	internalcollector "github.com/goliatone/go-formflow/internal/collector"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func main() {
	formName := flag.String("form", "contact", "form name to load")
	renderer := flag.String("renderer", "vanilla", "renderer to use (vanilla, tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	collectorURL := flag.String("collector", "", "collector service base URL")
	schemaPath := flag.String("schema", "", "local schema document path (offline mode)")
	tokenURL := flag.String("token-url", "", "authentication token endpoint")
	action := flag.String("action", "/submissions", "form action URL for HTML output")
	fill := flag.Bool("fill", false, "fill the form interactively and submit")
	flag.Parse()

	ctx := context.Background()

	var options []orchestrator.Option
	switch {
	case *schemaPath != "":
		options = append(options, orchestrator.WithSchemaSource(fileSource{path: *schemaPath}))
	case *collectorURL != "":
		options = append(options, orchestrator.WithCollectorBaseURL(*collectorURL))
	default:
		log.Fatal("either -collector or -schema is required")
	}

	if *tokenURL != "" {
		tokens, err := internalcollector.NewTokenClient(*tokenURL)
		if err != nil {
			log.Fatalf("configure token client: %v", err)
		}
		options = append(options, orchestrator.WithTokenProvider(tokens))
	}

	gen := orchestrator.New(options...)

	sess, err := gen.Start(ctx, *formName)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	if *fill {
		filler := tui.NewFiller()
		if err := filler.Fill(ctx, sess); err != nil {
			log.Fatalf("Fill aborted: %v", err)
		}
		state, err := sess.Submit(ctx)
		if err != nil {
			log.Fatalf("Submit failed: %v", err)
		}
		fmt.Printf("Submission finished in state %q\n", state)
		if notice := sess.Notice(); notice != nil {
			fmt.Println(notice.Header)
			for _, message := range notice.Messages {
				fmt.Println("  -", message)
			}
		}
		return
	}

	out, err := gen.Render(ctx, sess, *renderer, render.RenderOptions{Action: *action})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}
}

// fileSource serves a schema document from a local file, for offline
// rendering without a collector service.
type fileSource struct {
	path string
}

func (s fileSource) Schema(_ context.Context, _ string) (schema.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("read schema: %w", err)
	}
	return schema.ParseDocument(data)
}
