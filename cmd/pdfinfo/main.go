package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ghaddarAbs/pikepdf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: pdfinfo <pdf-file> [password]")
		os.Exit(1)
	}

	var opts []pikepdf.OpenOption
	if len(os.Args) > 2 {
		opts = append(opts, pikepdf.WithPassword(os.Args[2]))
	}

	doc, err := pikepdf.Open(os.Args[1], opts...)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	pages, err := doc.Pages()
	if err != nil {
		log.Fatalf("Failed to read page list: %v", err)
	}

	fmt.Printf("File:            %s\n", doc.Filename())
	fmt.Printf("PDF version:     %s\n", doc.PDFVersion())
	if lvl := doc.ExtensionLevel(); lvl > 0 {
		fmt.Printf("Extension level: %d\n", lvl)
	}
	fmt.Printf("Encrypted:       %v\n", doc.IsEncrypted())
	fmt.Printf("Pages:           %d\n", len(pages))
	fmt.Printf("Root:            %s\n", doc.Root())
	fmt.Printf("Trailer:         %s\n", doc.Trailer())

	for _, w := range doc.GetWarnings() {
		fmt.Printf("Warning:         %s\n", w)
	}

	fmt.Println("\nCross-reference table:")
	fmt.Print(doc.ShowXRefTable())
}
