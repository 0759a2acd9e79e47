package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"

	schemaform "github.com/goliatone/go-schemaform"
	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/jsonschema"
	"github.com/goliatone/go-schemaform/pkg/render"
	htmlrenderer "github.com/goliatone/go-schemaform/pkg/renderers/html"
	"github.com/goliatone/go-schemaform/pkg/renderers/tui"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

func main() {
	source := flag.String("source", "schema.json", "JSON Schema document path or URL")
	operation := flag.String("operation", "", "treat the source as an OpenAPI document and extract this operation's request schema")
	rendererName := flag.String("renderer", "html", "renderer to use (html or tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	action := flag.String("action", "/submit", "form action used by the html renderer")
	method := flag.String("method", "POST", "form method used by the html renderer")
	dataFile := flag.String("data", "", "JSON file with initial data merged over generated defaults")
	flag.Parse()

	ctx := context.Background()

	options := []schemaform.Option{
		schemaform.WithLoaderOptions(jsonschema.LoaderOptions{
			HTTPClient:        http.DefaultClient,
			AllowHTTPFallback: true,
		}),
	}
	if *dataFile != "" {
		raw, err := os.ReadFile(*dataFile)
		if err != nil {
			log.Fatalf("Failed to read initial data: %v", err)
		}
		var initial any
		if err := json.Unmarshal(raw, &initial); err != nil {
			log.Fatalf("Failed to decode initial data: %v", err)
		}
		options = append(options, schemaform.WithInitialData(initial))
	}

	htmlRenderer, err := htmlrenderer.New()
	if err != nil {
		log.Fatalf("Failed to construct html renderer: %v", err)
	}
	tuiRenderer, err := tui.New()
	if err != nil {
		log.Fatalf("Failed to construct tui renderer: %v", err)
	}
	options = append(options,
		schemaform.WithRenderer(htmlRenderer),
		schemaform.WithRenderer(tuiRenderer),
	)

	// The html renderer reads mounted elements off its own surface, so the
	// form must reconcile against that surface from the start.
	var formOptions []form.ContextOption
	if *rendererName == htmlRenderer.Name() {
		formOptions = append(formOptions, form.WithSurface(htmlRenderer.Surface()))
	}

	engine := schemaform.New(options...)

	var built *schemaform.Form
	if *operation != "" {
		raw, err := os.ReadFile(*source)
		if err != nil {
			log.Fatalf("Failed to read OpenAPI document: %v", err)
		}
		built, err = engine.FormFromOperation(ctx, raw, *operation, formOptions...)
		if err != nil {
			log.Fatalf("Failed to build form for operation %q: %v", *operation, err)
		}
	} else {
		src := parseSource(*source)
		if src == nil {
			log.Fatalf("invalid source: %q", *source)
		}
		built, err = engine.FormFromSource(ctx, src, formOptions...)
		if err != nil {
			log.Fatalf("Failed to build form: %v", err)
		}
	}

	result, err := engine.Render(ctx, built, *rendererName, render.Options{
		Action: *action,
		Method: *method,
	})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, result, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(result))
	}
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}
