package main

import (
	"flag"
	"log"
	"os"

	"github.com/foliolib/folio/api/v1/configs"
	"github.com/foliolib/folio/pkg/yaml"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(configs.New(),
		"github.com/foliolib/folio/api/v1/configs",
		"github.com/foliolib/folio/pkg/keys",
		"github.com/foliolib/folio/pkg/shelf",
		"github.com/foliolib/folio/pkg/ui",
	)
	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	// Write schema.json file.
	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
