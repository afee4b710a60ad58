package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSamplePromos creates sample promo code files for testing.
// A code is valid when it appears in at least 2 files.
func main() {
	dataDir := "data/promos"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// Sample promo code sets
	promos := map[string][]string{
		"promobase1.gz": {
			"VALIDONE1",  // In file 1 and 2
			"VALIDTWO12", // In file 1 and 2
			"ALLTHREE1",  // In all 3 files
			"ONLYONE111", // Only in file 1
			"SUMMER2026", // In file 1 and 3
		},
		"promobase2.gz": {
			"VALIDONE1",  // In file 1 and 2
			"VALIDTWO12", // In file 1 and 2
			"ALLTHREE1",  // In all 3 files
			"ONLYTWO222", // Only in file 2
			"WINTER2026", // In file 2 and 3
		},
		"promobase3.gz": {
			"WINTER2026", // In file 2 and 3
			"SUMMER2026", // In file 1 and 3
			"ALLTHREE1",  // In all 3 files
			"ONLYTHREE3", // Only in file 3
			"SPRING2026", // In file 3 only
		},
	}

	for filename, codes := range promos {
		filePath := filepath.Join(dataDir, filename)

		if err := createPromoFile(filePath, codes); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(codes))
	}

	fmt.Println("\nSample promo files created successfully!")
	fmt.Println("\nValid codes (appear in at least 2 files):")
	fmt.Println("  - VALIDONE1  (files 1, 2)")
	fmt.Println("  - VALIDTWO12 (files 1, 2)")
	fmt.Println("  - ALLTHREE1  (files 1, 2, 3)")
	fmt.Println("  - SUMMER2026 (files 1, 3)")
	fmt.Println("  - WINTER2026 (files 2, 3)")
	fmt.Println("\nInvalid codes (appear in only 1 file):")
	fmt.Println("  - ONLYONE111 (file 1 only)")
	fmt.Println("  - ONLYTWO222 (file 2 only)")
	fmt.Println("  - ONLYTHREE3 (file 3 only)")
	fmt.Println("  - SPRING2026 (file 3 only)")
}

func createPromoFile(filePath string, codes []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
