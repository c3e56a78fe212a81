package handlers_integrated_test_suite

import (
	"fmt"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		fmt.Println("DATABASE_URL not set, skipping integrated handler tests")
		os.Exit(0)
	}
	if err := setupTestRepos(url); err != nil {
		fmt.Println("could not set up integrated handler tests:", err)
		os.Exit(1)
	}

	code := m.Run()
	database.Close()
	os.Exit(code)
}
