package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"smart-shopping-list/internal/classify"
	"smart-shopping-list/internal/config"
	"smart-shopping-list/internal/database"
	"smart-shopping-list/internal/frequency"
	"smart-shopping-list/internal/list"
	"smart-shopping-list/internal/llm"
	"smart-shopping-list/internal/webimport"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var textGen llm.TextGenerator
	var classifier classify.Classifier = classify.Disabled{}
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer client.Close()
		textGen = client
	case config.ProviderGroq:
		textGen = llm.NewGroqClient(cfg.GroqAPIKey)
	}
	if textGen != nil {
		classifier = classify.NewLLMClassifier(textGen)
	}

	freqStore := frequency.NewStore(db.SQL)
	store := list.NewStore(cfg.UserID, list.NewSQLRepository(db.SQL), freqStore)
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Failed to load lists: %v", err)
	}
	ingestor := list.NewIngestor(store, classifier)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		if len(os.Args) < 3 {
			log.Fatal("Usage: shopping-list add <items>")
		}
		input := strings.Join(os.Args[2:], " ")
		ingestor.Submit(ctx, store.SelectedID(), input)
		ingestor.Wait()
		if err := store.Flush(ctx); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		printView(store.View())
	case "import":
		if len(os.Args) < 3 {
			log.Fatal("Usage: shopping-list import <url>")
		}
		if textGen == nil {
			log.Fatal("Import needs an LLM provider; set GEMINI_API_KEY or GROQ_API_KEY")
		}
		items, err := webimport.NewImporter(textGen).FetchItems(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		ingestor.Submit(ctx, store.SelectedID(), strings.Join(items, "\n"))
		ingestor.Wait()
		if err := store.Flush(ctx); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		printView(store.View())
	case "show":
		printView(store.View())
	case "export":
		for _, line := range store.View().ExportLines() {
			fmt.Println(line)
		}
	case "suggest":
		var labels []string
		if len(os.Args) > 2 {
			labels, err = freqStore.Search(ctx, os.Args[2], 10)
		} else {
			labels, err = freqStore.Top(ctx, 10)
		}
		if err != nil {
			log.Fatalf("Failed to load suggestions: %v", err)
		}
		if len(labels) == 0 {
			fmt.Println("No suggestions yet.")
			return
		}
		for _, label := range labels {
			fmt.Println(label)
		}
	case "lists":
		for i, info := range store.Lists() {
			marker := " "
			if info.Selected {
				marker = "*"
			}
			fmt.Printf("%s %d. %s (%d items)\n", marker, i+1, info.Name, info.Items)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printView(view list.View) {
	fmt.Printf("%s\n", view.ListName)

	n := 0
	for _, group := range view.Groups {
		fmt.Printf("\n[%s]\n", group.Category)
		for _, item := range group.Items {
			n++
			fmt.Printf("%3d. %s%s\n", n, statusMarker(item), item.Text)
		}
	}
	if len(view.Checked) > 0 {
		fmt.Printf("\n[done]\n")
		for _, item := range view.Checked {
			n++
			fmt.Printf("%3d. [x] %s\n", n, item.Text)
		}
	}
	if n == 0 {
		fmt.Println("\n(empty)")
	}
	if view.SaveErr != nil {
		fmt.Println("\nWarning: last save failed; changes are kept in memory.")
	}
}

func statusMarker(item list.Item) string {
	switch item.Status {
	case list.StatusAnalyzing:
		return "(analyzing) "
	case list.StatusError:
		return "(error) "
	default:
		return ""
	}
}

func printUsage() {
	fmt.Println("Usage: shopping-list <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  add <items>   Add items, e.g. add 2kg Kartoffeln, Milch")
	fmt.Println("  import <url>  Extract items from a recipe page")
	fmt.Println("  show          Print the current list")
	fmt.Println("  export        Print the unchecked items as plain text")
	fmt.Println("  suggest [q]   Print your most frequent items, optionally by prefix")
	fmt.Println("  lists         Print all lists")
}
